package ports

import (
	"context"
	"time"

	"domin/contexts/finance-core/fee-vault/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// AuthorizationGuard asks the access registry whether principal may invoke
// (target, selector).
type AuthorizationGuard interface {
	CanCall(ctx context.Context, principal string, target string, selector string) (bool, error)
}

// TokenLedger is the fee-currency collaborator. Deposits pull funds from the
// depositor into the treasury; the ledger enforces balances and allowances.
type TokenLedger interface {
	TransferFrom(ctx context.Context, currency string, from string, to string, amount int64) error
	BalanceOf(ctx context.Context, currency string, account string) (int64, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for deposits.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// Repository is the vault's storage boundary. Debit applies the balance
// decrement and the reward accrual atomically.
type Repository interface {
	SetFeeConfig(ctx context.Context, config entities.FeeConfig) error
	GetFeeConfig(ctx context.Context) (entities.FeeConfig, bool, error)
	Credit(ctx context.Context, authorizerID uint64, amount int64, now time.Time) (entities.FeeBalance, error)
	Debit(ctx context.Context, authorizerID uint64, fee int64, reward int64, now time.Time) (entities.FeeBalance, entities.RewardAccrual, error)
	GetBalance(ctx context.Context, authorizerID uint64) (entities.FeeBalance, error)
	GetReward(ctx context.Context, authorizerID uint64) (entities.RewardAccrual, error)
}
