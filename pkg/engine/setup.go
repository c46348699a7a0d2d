package engine

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/r-umemoto/edinet-mcp/pkg/config"
	"github.com/r-umemoto/edinet-mcp/pkg/infra/financial"
	"github.com/r-umemoto/edinet-mcp/pkg/tools"
	"github.com/r-umemoto/edinet-mcp/pkg/usecase"
)

// BuildEngine は設定からシステム全体を組み立てます
func BuildEngine(cfg *config.AppConfig, logger *slog.Logger) *Engine {
	// 1. インフラ層
	client := financial.NewClient(cfg.Financial, financial.WithLogger(logger))
	if !client.HasAPIKey() {
		logger.Warn("API_KEY is not set; every tool call will fail until it is configured")
	}

	// 2. ユースケース
	lookup := usecase.NewLookupUseCase(client)

	// 3. MCPサーバーとツール
	mcpServer := server.NewMCPServer(cfg.ServerName, cfg.ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.NewFinancialTools(lookup, logger).Register(mcpServer)

	return NewEngine(mcpServer, cfg.Transport, cfg.Addr, logger)
}
