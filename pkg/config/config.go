package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/r-umemoto/edinet-mcp/pkg/infra/financial"
)

// サポートするMCPトランスポート
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// AppConfig はシステム全体の設定です
type AppConfig struct {
	ServerName    string `envconfig:"SERVER_NAME" default:"edinet"`
	ServerVersion string `envconfig:"SERVER_VERSION" default:"0.1.0"`
	Transport     string `envconfig:"MCP_TRANSPORT" default:"stdio"`
	Addr          string `envconfig:"MCP_ADDR" default:":8080"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	Financial financial.Config // ネストされた構造体もタグに従って読み込まれます
}

// Load は .env と環境変数から設定を読み込みます
func Load() (*AppConfig, error) {
	// .env が無い環境もあるのでエラーは無視する
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は値の組み合わせをチェックします。API_KEY の有無はここでは見ません。
func (c *AppConfig) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return fmt.Errorf("unsupported MCP_TRANSPORT %q (want stdio, sse or http)", c.Transport)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Financial.APIURL == "" {
		return fmt.Errorf("FINANCIAL_API_URL must not be empty")
	}
	return nil
}

// SlogLevel は LOG_LEVEL を slog.Level に変換します
func (c *AppConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
