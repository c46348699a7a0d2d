// cmd/edinet/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/r-umemoto/edinet-mcp/pkg/config"
	"github.com/r-umemoto/edinet-mcp/pkg/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "edinet:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. 設定の読み込み（.env → 環境変数）
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. ロガー。stdout は stdio トランスポートが使うので必ず stderr に出す
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 3. OSの終了シグナル (Ctrl+C) でキャンセルされるコンテキスト
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. 組み立てて起動
	e := engine.BuildEngine(cfg, logger)
	if err := e.Run(ctx); err != nil {
		return err
	}

	logger.Info("MCP server stopped")
	return nil
}
