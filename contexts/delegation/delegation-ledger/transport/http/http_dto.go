package httptransport

import "time"

type MintAuthorizerRequest struct {
	Owner string `json:"owner"`
}

type MintOperatorRequest struct {
	ParentAuthorizerID uint64 `json:"parent_authorizer_id"`
	Owner              string `json:"owner"`
}

type AuthorizerTokenResponse struct {
	TokenID  uint64    `json:"token_id"`
	Owner    string    `json:"owner"`
	MintedAt time.Time `json:"minted_at"`
	URI      string    `json:"uri,omitempty"`
}

type OperatorTokenResponse struct {
	TokenID            uint64    `json:"token_id"`
	Owner              string    `json:"owner"`
	ParentAuthorizerID uint64    `json:"parent_authorizer_id"`
	Delegate           string    `json:"delegate"`
	MintedAt           time.Time `json:"minted_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	URI                string    `json:"uri,omitempty"`
}

type RegisterParentRequest struct {
	NewAuthorizerID uint64 `json:"new_authorizer_id"`
}

type SetDelegateRequest struct {
	Delegate string `json:"delegate"`
}

type SetVerifiedRequest struct {
	Delegate string `json:"delegate"`
	Verified bool   `json:"verified"`
}

type TransferRequest struct {
	NewOwner string `json:"new_owner"`
}

type CheckBindingRequest struct {
	AuthorizerID uint64 `json:"authorizer_id"`
	OperatorID   uint64 `json:"operator_id"`
}

type CheckBindingResponse struct {
	AuthorizerID uint64 `json:"authorizer_id"`
	OperatorID   uint64 `json:"operator_id"`
	Delegate     string `json:"delegate"`
	Verified     bool   `json:"verified"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
