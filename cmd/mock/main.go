// cmd/mock/main.go
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const endpoint = "/wp-json/financial/v1/get/"

// モック用の開示データ
var mockFilings = []filing{
	{DocID: "S100TR7I", SecCode: "72030", CompanyName: "トヨタ自動車株式会社", PeriodEnd: "2024-03-31", SubmitDate: "2024-06-18", NetSales: 45095325000000},
	{DocID: "S100SS8P", SecCode: "67580", CompanyName: "ソニーグループ株式会社", PeriodEnd: "2024-03-31", SubmitDate: "2024-06-25", NetSales: 13020768000000},
	{DocID: "S100QZ0M", SecCode: "99840", CompanyName: "ソフトバンクグループ株式会社", PeriodEnd: "2024-03-31", SubmitDate: "2024-06-21", NetSales: 6756500000000},
}

type filing struct {
	DocID       string `json:"doc_id"`
	SecCode     string `json:"sec_code"`
	CompanyName string `json:"company_name"`
	PeriodEnd   string `json:"period_end"`
	SubmitDate  string `json:"submit_date"`
	NetSales    int64  `json:"net_sales"`
}

func main() {
	addr := pflag.String("addr", ":18082", "listen address")
	apiKey := pflag.String("api-key", "mock_key_99999", "expected X-API-Key value")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mux := http.NewServeMux()
	mux.Handle(endpoint, handleGet(*apiKey, logger))

	logger.Info("mock financial api listening", "addr", *addr, "endpoint", endpoint)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleGet(apiKey string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request", "query", r.URL.RawQuery)

		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"code": "method_not_allowed"})
			return
		}
		if r.Header.Get("X-API-Key") != apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "invalid_api_key", "message": "APIキーが無効です"})
			return
		}

		q := r.URL.Query()
		secCodes := append(q["sec_code[]"], q["sec_code"]...)
		docIDs := append(q["doc_id[]"], q["doc_id"]...)
		name := q.Get("company_name")
		start, end := q.Get("start_date"), q.Get("end_date")

		var hits []filing
		for _, f := range mockFilings {
			if len(secCodes) > 0 && !contains(secCodes, f.SecCode) {
				continue
			}
			if len(docIDs) > 0 && !contains(docIDs, f.DocID) {
				continue
			}
			if name != "" && !strings.Contains(f.CompanyName, name) {
				continue
			}
			// YYYY-MM-DD なので文字列比較で足りる
			if start != "" && f.SubmitDate < start {
				continue
			}
			if end != "" && f.SubmitDate > end {
				continue
			}
			hits = append(hits, f)
		}

		if len(hits) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "該当するデータがありません"})
			return
		}
		writeJSON(w, http.StatusOK, hits)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
