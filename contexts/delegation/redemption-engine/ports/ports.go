package ports

import (
	"context"
	"time"

	"domin/contexts/delegation/redemption-engine/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues redemption/audit/outbox ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Binding is the ledger's validated answer for one (caller, authorizer,
// operator) triple.
type Binding struct {
	AuthorizerID uint64
	OperatorID   uint64
	DelegateRef  string
	Verified     bool
}

// BindingChecker fronts the delegation ledger. Errors propagate to the caller
// unchanged; the engine never redeems past a failed check.
type BindingChecker interface {
	CheckBinding(ctx context.Context, caller string, authorizerID uint64, operatorID uint64) (Binding, error)
}

// FeeCharger fronts the fee vault. EnsureFunds is the read-only pre-flight;
// DebitForRedemption applies the flat batch fee once after asset effects.
type FeeCharger interface {
	EnsureFunds(ctx context.Context, authorizerID uint64) error
	DebitForRedemption(ctx context.Context, authorizerID uint64) error
}

// AssetRegistry is the external asset collaborator. Approvals are granted by
// the asset owner to a delegate reference.
type AssetRegistry interface {
	OwnerOf(ctx context.Context, assetRef string, assetID uint64) (string, error)
	IsApproved(ctx context.Context, assetRef string, assetID uint64, delegateRef string) (bool, error)
	Burn(ctx context.Context, assetRef string, assetID uint64) error
}

// DelegateRequest carries everything a delegate needs for one asset.
type DelegateRequest struct {
	AssetRef   string
	AssetID    uint64
	AssetOwner string
	Memo       string
}

// Delegate executes one redemption request. Precheck must fail without side
// effects; the engine prechecks the whole batch before executing any of it.
type Delegate interface {
	Precheck(ctx context.Context, request DelegateRequest) error
	Execute(ctx context.Context, request DelegateRequest) error
}

// DelegateResolver maps a delegate reference to its implementation.
type DelegateResolver interface {
	Resolve(delegateRef string) (Delegate, error)
}

// OutboxMessage is a pending relay row persisted with the audit batch.
type OutboxMessage struct {
	OutboxID  string
	Topic     string
	Payload   []byte
	CreatedAt time.Time
}

// Repository persists audit records atomically with their outbox rows and
// supports worker relay polling.
type Repository interface {
	AppendAudit(ctx context.Context, records []entities.AuditRecord, outbox []OutboxMessage) error
	ListAuditsByAuthorizer(ctx context.Context, authorizerID uint64, limit int) ([]entities.AuditRecord, error)
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// AuditPublisher delivers relayed audit envelopes to the message bus.
type AuditPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
