package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/r-umemoto/edinet-mcp/pkg/infra/financial"
	"github.com/r-umemoto/edinet-mcp/pkg/usecase"
)

const testAPIKey = "secret-key-123"

func newTestTools(t *testing.T, url, apiKey string) *FinancialTools {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := financial.NewClient(
		financial.Config{APIURL: url, APIKey: apiKey, Timeout: 5 * time.Second},
		financial.WithLogger(logger),
	)
	return NewFinancialTools(usecase.NewLookupUseCase(client), logger)
}

func findTool(t *testing.T, ft *FinancialTools, name string) server.ServerTool {
	t.Helper()
	for _, st := range ft.Tools() {
		if st.Tool.Name == name {
			return st
		}
	}
	t.Fatalf("tool %q not found", name)
	return server.ServerTool{}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content length = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestTools_Definitions(t *testing.T) {
	ft := newTestTools(t, "http://unused", testAPIKey)

	want := map[string]string{
		ToolByCompanyName: argCompanyName,
		ToolBySecCode:     argSecCode,
		ToolByDocID:       argDocID,
	}

	got := ft.Tools()
	if len(got) != len(want) {
		t.Fatalf("tool count = %d, want %d", len(got), len(want))
	}
	for _, st := range got {
		idArg, ok := want[st.Tool.Name]
		if !ok {
			t.Errorf("unexpected tool %q", st.Tool.Name)
			continue
		}
		required := strings.Join(st.Tool.InputSchema.Required, ",")
		if required != idArg {
			t.Errorf("%s required = %q, want %q", st.Tool.Name, required, idArg)
		}
		for _, arg := range []string{idArg, argStartDate, argEndDate} {
			if _, ok := st.Tool.InputSchema.Properties[arg]; !ok {
				t.Errorf("%s missing property %q", st.Tool.Name, arg)
			}
		}
	}
}

func TestHandler_Success(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"foo": 1}`))
	}))
	defer upstream.Close()

	tests := []struct {
		tool      string
		args      map[string]any
		wantQuery string
	}{
		{
			tool:      ToolByCompanyName,
			args:      map[string]any{argCompanyName: "ソニー", argStartDate: "2024-01-01"},
			wantQuery: "company_name=%E3%82%BD%E3%83%8B%E3%83%BC&start_date=2024-01-01",
		},
		{
			tool:      ToolBySecCode,
			args:      map[string]any{argSecCode: "72030", argEndDate: "2024-12-31"},
			wantQuery: "end_date=2024-12-31&sec_code=72030",
		},
		{
			tool:      ToolBySecCode,
			args:      map[string]any{argSecCode: "72030,67580"},
			wantQuery: "sec_code%5B%5D=72030&sec_code%5B%5D=67580",
		},
		{
			tool:      ToolByDocID,
			args:      map[string]any{argDocID: "S100TR7I"},
			wantQuery: "doc_id=S100TR7I",
		},
	}

	ft := newTestTools(t, upstream.URL, testAPIKey)
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.wantQuery, func(t *testing.T) {
			st := findTool(t, ft, tt.tool)
			res, err := st.Handler(context.Background(), callRequest(tt.tool, tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.IsError {
				t.Fatalf("unexpected tool error: %s", resultText(t, res))
			}
			if got := resultText(t, res); got != `{"foo":1}` {
				t.Errorf("text = %q, want %q", got, `{"foo":1}`)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
		})
	}
}

func TestHandler_UpstreamErrorDoesNotLeakKey(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"not_found"}`))
	}))
	defer upstream.Close()

	ft := newTestTools(t, upstream.URL, testAPIKey)
	st := findTool(t, ft, ToolBySecCode)

	res, err := st.Handler(context.Background(), callRequest(ToolBySecCode, map[string]any{argSecCode: "99990"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}

	text := resultText(t, res)
	if !strings.Contains(text, "404") {
		t.Errorf("text %q should contain status 404", text)
	}
	if !strings.Contains(text, "not_found") {
		t.Errorf("text %q should contain upstream body", text)
	}
	if strings.Contains(text, testAPIKey) {
		t.Errorf("text %q leaks the API key", text)
	}
}

func TestHandler_MissingAPIKey(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	ft := newTestTools(t, upstream.URL, "")
	calls := map[string]map[string]any{
		ToolByCompanyName: {argCompanyName: "トヨタ"},
		ToolBySecCode:     {argSecCode: "72030"},
		ToolByDocID:       {argDocID: "S100TR7I"},
	}

	for name, args := range calls {
		st := findTool(t, ft, name)
		res, err := st.Handler(context.Background(), callRequest(name, args))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !res.IsError {
			t.Errorf("%s: IsError = false, want true", name)
		}
		if text := resultText(t, res); !strings.Contains(text, "API_KEY") {
			t.Errorf("%s: text %q should mention API_KEY", name, text)
		}
	}

	if hits.Load() != 0 {
		t.Errorf("upstream received %d requests, want 0", hits.Load())
	}
}

func TestHandler_MissingRequiredArgument(t *testing.T) {
	ft := newTestTools(t, "http://unused", testAPIKey)
	st := findTool(t, ft, ToolByDocID)

	res, err := st.Handler(context.Background(), callRequest(ToolByDocID, map[string]any{argStartDate: "2024-01-01"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
}

func TestRegister_ListsTools(t *testing.T) {
	ft := newTestTools(t, "http://unused", testAPIKey)
	s := server.NewMCPServer("edinet", "test", server.WithToolCapabilities(false))
	ft.Register(s)

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	for _, name := range []string{ToolByCompanyName, ToolBySecCode, ToolByDocID} {
		if !strings.Contains(string(raw), name) {
			t.Errorf("tools/list response missing %q: %s", name, raw)
		}
	}
}
