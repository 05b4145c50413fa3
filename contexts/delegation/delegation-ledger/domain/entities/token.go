package entities

import "time"

// Target and selector constants for the registry bindings gating this module.
// Selectors are opaque fixed-width discriminators; admin tooling grants roles
// against these exact values.
const (
	TargetName = "delegation-ledger"

	SelectorMintAuthorizer = "0x51a9e1b4"
	SelectorMintOperator   = "0x3f8c07d2"
)

// StandardDelegate is the ledger's built-in event-only delegate used when an
// operator has no bound delegate. It moves no assets and is treated as
// verified for every authorizer.
const StandardDelegate = "delegate:standard"

// AuthorizerToken is a root-delegated authority. Ids are allocated
// sequentially starting at 1 and never reused.
type AuthorizerToken struct {
	TokenID  uint64    `json:"token_id"`
	Owner    string    `json:"owner"`
	MintedAt time.Time `json:"minted_at"`
}

// OperatorToken is the second-tier delegate token. ParentAuthorizerID is set
// at mint and may be moved by re-registration; BoundDelegate is empty until
// the owner binds one.
type OperatorToken struct {
	TokenID            uint64    `json:"token_id"`
	Owner              string    `json:"owner"`
	ParentAuthorizerID uint64    `json:"parent_authorizer_id"`
	BoundDelegate      string    `json:"bound_delegate,omitempty"`
	MintedAt           time.Time `json:"minted_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DelegateRef resolves the delegate that executes redemptions for this
// operator.
func (t OperatorToken) DelegateRef() string {
	if t.BoundDelegate == "" {
		return StandardDelegate
	}
	return t.BoundDelegate
}

// DelegateVerification is the authorizer owner's attestation for one
// (authorizer, delegate) pair. Verification travels with the pair, not with
// the operator token, so re-binding a delegate does not reset it.
type DelegateVerification struct {
	AuthorizerID uint64    `json:"authorizer_id"`
	DelegateRef  string    `json:"delegate_ref"`
	Verified     bool      `json:"verified"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Binding is the successful result of CheckBinding, handed to the redemption
// engine.
type Binding struct {
	AuthorizerID uint64 `json:"authorizer_id"`
	OperatorID   uint64 `json:"operator_id"`
	DelegateRef  string `json:"delegate_ref"`
	Verified     bool   `json:"verified"`
}
