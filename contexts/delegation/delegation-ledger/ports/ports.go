package ports

import (
	"context"
	"time"

	"domin/contexts/delegation/delegation-ledger/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// AuthorizationGuard asks the access registry whether principal may invoke
// (target, selector). An unbound pair reports allowed=false; the ledger's
// fallback policy for mints is deny.
type AuthorizationGuard interface {
	CanCall(ctx context.Context, principal string, target string, selector string) (bool, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mint endpoints.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// MintAuthorizerInput allocates the next authorizer id for owner.
type MintAuthorizerInput struct {
	Owner    string
	MintedAt time.Time
}

// MintOperatorInput allocates the next operator id bound to the parent
// authorizer. The repository enforces that the parent exists and has no live
// operator bound to it.
type MintOperatorInput struct {
	ParentAuthorizerID uint64
	Owner              string
	MintedAt           time.Time
}

// Repository is the write/read boundary for token state. Records are never
// deleted; burn semantics belong to the external asset registry.
type Repository interface {
	MintAuthorizer(ctx context.Context, input MintAuthorizerInput) (entities.AuthorizerToken, error)
	MintOperator(ctx context.Context, input MintOperatorInput) (entities.OperatorToken, error)
	GetAuthorizer(ctx context.Context, tokenID uint64) (entities.AuthorizerToken, error)
	GetOperator(ctx context.Context, tokenID uint64) (entities.OperatorToken, error)
	FindOperatorByParent(ctx context.Context, authorizerID uint64) (entities.OperatorToken, bool, error)
	RegisterParent(ctx context.Context, operatorID uint64, newAuthorizerID uint64, now time.Time) (entities.OperatorToken, error)
	SetDelegate(ctx context.Context, operatorID uint64, delegateRef string, now time.Time) (entities.OperatorToken, error)
	SetVerification(ctx context.Context, verification entities.DelegateVerification) error
	GetVerification(ctx context.Context, authorizerID uint64, delegateRef string) (bool, error)
	TransferAuthorizer(ctx context.Context, tokenID uint64, newOwner string, now time.Time) (entities.AuthorizerToken, error)
	TransferOperator(ctx context.Context, tokenID uint64, newOwner string, now time.Time) (entities.OperatorToken, error)
}
