package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/r-umemoto/edinet-mcp/pkg/config"
)

const shutdownTimeout = 5 * time.Second

// Engine はMCPサーバーのライフサイクル（起動、待受、停止）を管理します
type Engine struct {
	mcpServer *server.MCPServer
	transport string
	addr      string
	logger    *slog.Logger

	stdin  io.Reader
	stdout io.Writer
}

func NewEngine(mcpServer *server.MCPServer, transport, addr string, logger *slog.Logger) *Engine {
	return &Engine{
		mcpServer: mcpServer,
		transport: transport,
		addr:      addr,
		logger:    logger,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
}

// MCPServer は組み立て済みのMCPサーバーを返します
func (e *Engine) MCPServer() *server.MCPServer {
	return e.mcpServer
}

// Run は設定されたトランスポートで待ち受け、ctx がキャンセルされるまで戻りません
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("starting MCP server", "transport", e.transport, "addr", e.addr)

	switch e.transport {
	case config.TransportStdio:
		return e.runStdio(ctx)
	case config.TransportSSE:
		sse := server.NewSSEServer(e.mcpServer)
		return e.runHTTP(ctx, sse.Start, sse.Shutdown)
	case config.TransportHTTP:
		streamable := server.NewStreamableHTTPServer(e.mcpServer)
		return e.runHTTP(ctx, streamable.Start, streamable.Shutdown)
	default:
		return fmt.Errorf("unsupported transport: %s", e.transport)
	}
}

func (e *Engine) runStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(e.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(e.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, e.stdin, e.stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func (e *Engine) runHTTP(ctx context.Context, start func(addr string) error, shutdown func(ctx context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(e.addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", e.transport, err)
		}
		return nil
	case <-ctx.Done():
		e.logger.Info("shutting down MCP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s server: %w", e.transport, err)
	}
	return nil
}
