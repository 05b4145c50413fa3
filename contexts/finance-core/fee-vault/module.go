package feevault

import (
	"log/slog"
	"time"

	httpadapter "domin/contexts/finance-core/fee-vault/adapters/http"
	"domin/contexts/finance-core/fee-vault/adapters/memory"
	"domin/contexts/finance-core/fee-vault/application"
	"domin/contexts/finance-core/fee-vault/ports"
)

// Module is the fee-vault composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
	Ledger  *memory.TokenLedger
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository       ports.Repository
	Ledger           ports.TokenLedger
	Guard            ports.AuthorizationGuard
	Idempotency      ports.IdempotencyStore
	Clock            ports.Clock
	IdempotencyTTL   time.Duration
	DefaultRedeemFee int64
	RewardPercentage int64
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:             deps.Repository,
		Ledger:           deps.Ledger,
		Guard:            deps.Guard,
		Idempotency:      deps.Idempotency,
		Clock:            deps.Clock,
		IdempotencyTTL:   deps.IdempotencyTTL,
		DefaultRedeemFee: deps.DefaultRedeemFee,
		RewardPercentage: deps.RewardPercentage,
		Logger:           deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters, including the in-memory fee-currency ledger.
func NewInMemoryModule(guard ports.AuthorizationGuard, defaultRedeemFee int64, rewardPercentage int64, logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewTokenLedger()
	module := NewModule(Dependencies{
		Repository:       store,
		Ledger:           ledger,
		Guard:            guard,
		Idempotency:      store,
		Clock:            store,
		IdempotencyTTL:   7 * 24 * time.Hour,
		DefaultRedeemFee: defaultRedeemFee,
		RewardPercentage: rewardPercentage,
		Logger:           logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
