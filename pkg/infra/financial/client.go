package financial

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/r-umemoto/edinet-mcp/pkg/domain/disclosure"
)

var (
	// ErrMissingAPIKey は API_KEY が未設定のときに通信前に返されます
	ErrMissingAPIKey = errors.New("API_KEY environment variable not set")
	// ErrInvalidPayload は200応答の本文がJSONとして読めないときのエラーです
	ErrInvalidPayload = errors.New("financial api returned non-JSON body")
)

// Client は財務データAPIと通信するためのクライアントです
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption は Client の設定を上書きします
type ClientOption func(*Client)

// WithHTTPClient はHTTPクライアントを差し替えます（テスト用）
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger はロガーを差し替えます
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient は設定からクライアントを生成します。
// 認証キーは環境変数ではなく config から受け取ります。
func NewClient(config Config, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: config.APIURL,
		apiKey:   config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasAPIKey は認証キーが設定済みかを返します
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// doRequest はGETリクエストを1回だけ送信し、ステータスと本文を返します
func (c *Client) doRequest(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Fetch は disclosure.Fetcher の実装です。
// 200ならJSON本文をそのまま、それ以外は *disclosure.UpstreamError を返します。
func (c *Client) Fetch(ctx context.Context, q disclosure.Query) (disclosure.Payload, error) {
	if !c.HasAPIKey() {
		return nil, ErrMissingAPIKey
	}

	target := BuildURL(c.endpoint, q)
	c.logger.Debug("financial api request", "url", target)

	status, body, err := c.doRequest(ctx, target)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		decoded := decodeBody(body)
		c.logger.Error("financial api error", "status", status, "body", decoded)
		return nil, &disclosure.UpstreamError{StatusCode: status, Body: decoded}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return disclosure.Payload(buf.Bytes()), nil
}

// decodeBody はエラー本文の \uXXXX エスケープを読める文字に戻します。
// JSONでなければ本文をそのまま返します。
func decodeBody(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return string(body)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
