package entities

import "time"

// Target and selector constants for the registry bindings gating this module.
const (
	TargetName = "fee-vault"

	SelectorSetFeeCurrency = "0x7be1c976"
)

// FeeConfig names the fee currency and the treasury account deposits settle
// into. Unset until an authorized principal configures it.
type FeeConfig struct {
	Currency  string    `json:"currency"`
	Treasury  string    `json:"treasury"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeeBalance is the prepaid balance for one authorizer token. Never negative.
type FeeBalance struct {
	AuthorizerID uint64    `json:"authorizer_id"`
	Balance      int64     `json:"balance"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RewardAccrual is the cumulative reward earned by an authorizer's redeem
// activity. Monotone non-decreasing.
type RewardAccrual struct {
	AuthorizerID uint64    `json:"authorizer_id"`
	Accrued      int64     `json:"accrued"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RewardFor computes the authorizer's cut of a fee using truncating integer
// division.
func RewardFor(fee int64, percentage int64) int64 {
	if fee <= 0 || percentage <= 0 {
		return 0
	}
	return fee * percentage / 100
}
