package entities

import "time"

// WarningPrefix marks audit memos produced through a delegate the authorizer
// owner has not attested.
const WarningPrefix = "[WARNING] "

// Delegate references the engine resolves. The standard delegate only emits
// audit records; the burn delegate retires the asset and requires a prior
// approval from the asset owner.
const (
	DelegateStandard = "delegate:standard"
	DelegateBurn     = "delegate:burn"
)

// RedemptionRequest is one asset redemption inside a batch. RedemptionID is a
// caller-supplied opaque correlation id carried into the audit record
// unchanged; it is not required to be unique across calls.
type RedemptionRequest struct {
	RedemptionID string `json:"redemption_id"`
	AssetRef     string `json:"asset_ref"`
	AssetID      uint64 `json:"asset_id"`
	Memo         string `json:"memo"`
}

// AuditRecord is the immutable trace of one executed redemption request.
type AuditRecord struct {
	AuditID      string    `json:"audit_id"`
	RedemptionID string    `json:"redemption_id"`
	AuthorizerID uint64    `json:"authorizer_id"`
	OperatorID   uint64    `json:"operator_id"`
	DelegateRef  string    `json:"delegate_ref"`
	AssetRef     string    `json:"asset_ref"`
	AssetID      uint64    `json:"asset_id"`
	AssetOwner   string    `json:"asset_owner"`
	Memo         string    `json:"memo"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

// TagMemo prefixes the memo when the executing delegate is unverified.
func TagMemo(memo string, verified bool) string {
	if verified {
		return memo
	}
	return WarningPrefix + memo
}
