package httptransport

import "time"

type RedemptionRequestDTO struct {
	RedemptionID string `json:"redemption_id"`
	AssetRef     string `json:"asset_ref"`
	AssetID      uint64 `json:"asset_id"`
	Memo         string `json:"memo"`
}

type RedeemRequest struct {
	AuthorizerID uint64                 `json:"authorizer_id"`
	OperatorID   uint64                 `json:"operator_id"`
	Requests     []RedemptionRequestDTO `json:"requests"`
}

type AuditRecordDTO struct {
	AuditID      string    `json:"audit_id"`
	RedemptionID string    `json:"redemption_id"`
	AuthorizerID uint64    `json:"authorizer_id"`
	OperatorID   uint64    `json:"operator_id"`
	Delegate     string    `json:"delegate"`
	AssetRef     string    `json:"asset_ref"`
	AssetID      uint64    `json:"asset_id"`
	AssetOwner   string    `json:"asset_owner"`
	Memo         string    `json:"memo"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

type RedeemResponse struct {
	Records []AuditRecordDTO `json:"records"`
}

type ListAuditsResponse struct {
	Records []AuditRecordDTO `json:"records"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
