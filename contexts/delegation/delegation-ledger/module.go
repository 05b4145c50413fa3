package delegationledger

import (
	"log/slog"
	"time"

	httpadapter "domin/contexts/delegation/delegation-ledger/adapters/http"
	"domin/contexts/delegation/delegation-ledger/adapters/memory"
	"domin/contexts/delegation/delegation-ledger/application"
	"domin/contexts/delegation/delegation-ledger/ports"
)

// Module is the delegation-ledger composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository        ports.Repository
	Guard             ports.AuthorizationGuard
	Idempotency       ports.IdempotencyStore
	Clock             ports.Clock
	IdempotencyTTL    time.Duration
	AuthorizerBaseURI string
	OperatorBaseURI   string
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:              deps.Repository,
		Guard:             deps.Guard,
		Idempotency:       deps.Idempotency,
		Clock:             deps.Clock,
		IdempotencyTTL:    deps.IdempotencyTTL,
		AuthorizerBaseURI: deps.AuthorizerBaseURI,
		OperatorBaseURI:   deps.OperatorBaseURI,
		Logger:            deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(guard ports.AuthorizationGuard, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:        store,
		Guard:             guard,
		Idempotency:       store,
		Clock:             store,
		IdempotencyTTL:    7 * 24 * time.Hour,
		AuthorizerBaseURI: "https://tokens.domin.local/authorizer/",
		OperatorBaseURI:   "https://tokens.domin.local/operator/",
		Logger:            logger,
	})
	module.Store = store
	return module
}
