package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/r-umemoto/edinet-mcp/pkg/domain/disclosure"
)

// ErrEmptyIdentifier は検索キー（企業名・証券コード・ドキュメントID）が空のときに返されます
var ErrEmptyIdentifier = errors.New("identifier must not be empty")

// LookupUseCase は各ツールから呼ばれる財務データ検索の窓口です。
// どのフィールドを転送するかを決めるだけで、業務ロジックは持ちません。
type LookupUseCase struct {
	fetcher disclosure.Fetcher
}

func NewLookupUseCase(fetcher disclosure.Fetcher) *LookupUseCase {
	return &LookupUseCase{fetcher: fetcher}
}

// ByCompanyName は企業名で財務データを取得します
func (uc *LookupUseCase) ByCompanyName(ctx context.Context, companyName string, dates disclosure.DateRange) (string, error) {
	if strings.TrimSpace(companyName) == "" {
		return "", ErrEmptyIdentifier
	}
	return uc.fetch(ctx, disclosure.Query{CompanyName: companyName}, dates)
}

// BySecCode は証券コードで財務データを取得します。
// "72030,67580" のようにカンマ区切りで複数指定すると sec_code[] で送ります。
func (uc *LookupUseCase) BySecCode(ctx context.Context, secCode string, dates disclosure.DateRange) (string, error) {
	codes := splitIdentifiers(secCode)
	var q disclosure.Query
	switch len(codes) {
	case 0:
		return "", ErrEmptyIdentifier
	case 1:
		q.SecCode = codes[0]
	default:
		q.SecCodes = codes
	}
	return uc.fetch(ctx, q, dates)
}

// ByDocID はドキュメントIDで財務データを取得します。複数指定は BySecCode と同じ扱いです。
func (uc *LookupUseCase) ByDocID(ctx context.Context, docID string, dates disclosure.DateRange) (string, error) {
	ids := splitIdentifiers(docID)
	var q disclosure.Query
	switch len(ids) {
	case 0:
		return "", ErrEmptyIdentifier
	case 1:
		q.DocID = ids[0]
	default:
		q.DocIDs = ids
	}
	return uc.fetch(ctx, q, dates)
}

func (uc *LookupUseCase) fetch(ctx context.Context, q disclosure.Query, dates disclosure.DateRange) (string, error) {
	q.StartDate = dates.Start
	q.EndDate = dates.End

	payload, err := uc.fetcher.Fetch(ctx, q)
	if err != nil {
		return "", err
	}
	return payload.String(), nil
}

// splitIdentifiers はカンマ区切りの識別子を分解し、空要素を捨てます
func splitIdentifiers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
