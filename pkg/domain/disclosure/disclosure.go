package disclosure

import (
	"context"
	"fmt"
)

// Query は財務データAPIへ渡す検索条件です。
// 空文字・空スライスのフィールドはリクエストに含まれません。
type Query struct {
	CompanyName string   // 企業名
	SecCode     string   // 証券コード（単一）
	SecCodes    []string // 証券コード（複数指定。sec_code[] で送信）
	DocID       string   // ドキュメントID（単一）
	DocIDs      []string // ドキュメントID（複数指定。doc_id[] で送信）
	StartDate   string   // 開始日（YYYY-MM-DD）。形式チェックはしない
	EndDate     string   // 終了日（YYYY-MM-DD）
}

// DateRange は各ツールに共通の任意の期間指定です
type DateRange struct {
	Start string
	End   string
}

// Payload はAPIが返したJSONをそのまま保持します。スキーマは仮定しません。
type Payload []byte

func (p Payload) String() string {
	return string(p)
}

// UpstreamError はAPIが200以外を返したときのエラーです。
// 認証キーは絶対に含めません。
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("financial api error %d", e.StatusCode)
	}
	return fmt.Sprintf("financial api error %d: %s", e.StatusCode, e.Body)
}

// Fetcher は財務データの取得元です（インフラ層が実装します）
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Payload, error)
}
