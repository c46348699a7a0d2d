package financial

import "time"

// Config は財務データAPIを叩くために必要な設定です
type Config struct {
	APIURL string `envconfig:"FINANCIAL_API_URL" default:"https://lifetechia.com/wp-json/financial/v1/get/"`
	// 起動時には必須にしない。未設定ならツール呼び出しごとに通信前にエラーを返す
	APIKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `envconfig:"FINANCIAL_TIMEOUT" default:"30s"`
}
