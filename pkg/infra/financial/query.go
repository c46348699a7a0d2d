package financial

import (
	"net/url"

	"github.com/r-umemoto/edinet-mcp/pkg/domain/disclosure"
)

// クエリキー
const (
	keyCompanyName = "company_name"
	keySecCode     = "sec_code"
	keySecCodes    = "sec_code[]"
	keyDocID       = "doc_id"
	keyDocIDs      = "doc_id[]"
	keyStartDate   = "start_date"
	keyEndDate     = "end_date"
)

// encodeQuery は検索条件をクエリパラメータに変換します。
// スカラーは単一キー、スライスは "key[]" の繰り返しで表現します。
func encodeQuery(q disclosure.Query) url.Values {
	values := url.Values{}

	setScalar := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}
	addList := func(key string, vs []string) {
		for _, v := range vs {
			if v != "" {
				values.Add(key, v)
			}
		}
	}

	setScalar(keyCompanyName, q.CompanyName)
	setScalar(keySecCode, q.SecCode)
	addList(keySecCodes, q.SecCodes)
	setScalar(keyDocID, q.DocID)
	addList(keyDocIDs, q.DocIDs)
	setScalar(keyStartDate, q.StartDate)
	setScalar(keyEndDate, q.EndDate)

	return values
}

// BuildURL はエンドポイントに検索条件を付与したURLを返します。
// 条件が1つもなければ "?" を付けずにエンドポイントをそのまま返します。
func BuildURL(endpoint string, q disclosure.Query) string {
	values := encodeQuery(q)
	if len(values) == 0 {
		return endpoint
	}
	return endpoint + "?" + values.Encode()
}
