package httptransport

import "time"

type SetFeeCurrencyRequest struct {
	Currency string `json:"currency"`
	Treasury string `json:"treasury"`
}

type SetFeeCurrencyResponse struct {
	Currency  string    `json:"currency"`
	Treasury  string    `json:"treasury"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type FeeBalanceResponse struct {
	AuthorizerID uint64    `json:"authorizer_id"`
	Balance      int64     `json:"balance"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RewardResponse struct {
	AuthorizerID uint64    `json:"authorizer_id"`
	Accrued      int64     `json:"accrued"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
