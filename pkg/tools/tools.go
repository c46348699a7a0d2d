package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/r-umemoto/edinet-mcp/pkg/domain/disclosure"
	"github.com/r-umemoto/edinet-mcp/pkg/usecase"
)

// ツール名
const (
	ToolByCompanyName = "get_financial_data_by_company_name"
	ToolBySecCode     = "get_financial_data_by_sec_code"
	ToolByDocID       = "get_financial_data_by_doc_id"
)

const (
	argCompanyName = "company_name"
	argSecCode     = "sec_code"
	argDocID       = "doc_id"
	argStartDate   = "start_date"
	argEndDate     = "end_date"
)

// lookupFunc は LookupUseCase の3メソッドに共通のシグネチャです
type lookupFunc func(ctx context.Context, id string, dates disclosure.DateRange) (string, error)

// FinancialTools は財務データ検索ツール一式です
type FinancialTools struct {
	lookup *usecase.LookupUseCase
	logger *slog.Logger
}

func NewFinancialTools(lookup *usecase.LookupUseCase, logger *slog.Logger) *FinancialTools {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialTools{lookup: lookup, logger: logger}
}

// Tools はサーバーに登録するツール定義とハンドラーの組を返します
func (ft *FinancialTools) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newLookupTool(ToolByCompanyName,
				"企業名で財務データを取得するツール",
				argCompanyName, "企業名"),
			Handler: ft.handler(ToolByCompanyName, argCompanyName, ft.lookup.ByCompanyName),
		},
		{
			Tool: newLookupTool(ToolBySecCode,
				"証券コードで財務データを取得するツール",
				argSecCode, "証券コード+0（例: 72030）。カンマ区切りで複数指定可"),
			Handler: ft.handler(ToolBySecCode, argSecCode, ft.lookup.BySecCode),
		},
		{
			Tool: newLookupTool(ToolByDocID,
				"ドキュメントIDで財務データを取得するツール",
				argDocID, "ドキュメントID（例: S100TR7I）。カンマ区切りで複数指定可"),
			Handler: ft.handler(ToolByDocID, argDocID, ft.lookup.ByDocID),
		},
	}
}

// Register は全ツールをMCPサーバーに登録します
func (ft *FinancialTools) Register(s *server.MCPServer) {
	s.AddTools(ft.Tools()...)
}

func newLookupTool(name, description, idArg, idDescription string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description+"。取得した財務データ（JSON）を文字列として返します。"),
		mcp.WithString(idArg, mcp.Required(), mcp.Description(idDescription)),
		mcp.WithString(argStartDate, mcp.Description("開始日（YYYY-MM-DD）")),
		mcp.WithString(argEndDate, mcp.Description("終了日（YYYY-MM-DD）")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func (ft *FinancialTools) handler(name, idArg string, lookup lookupFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := ft.logger.With("tool", name, "call_id", uuid.NewString())

		id, err := req.RequireString(idArg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dates := disclosure.DateRange{
			Start: req.GetString(argStartDate, ""),
			End:   req.GetString(argEndDate, ""),
		}

		logger.Info("tool call", idArg, id, "start_date", dates.Start, "end_date", dates.End)

		text, err := lookup(ctx, id, dates)
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return mcp.NewToolResultError(describeError(err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// describeError はツール利用者向けのエラーメッセージを組み立てます
func describeError(err error) string {
	var upErr *disclosure.UpstreamError
	if errors.As(err, &upErr) {
		return "財務データAPIがエラーを返しました: " + upErr.Error()
	}
	return "財務データの取得に失敗しました: " + err.Error()
}
