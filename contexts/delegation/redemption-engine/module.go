package redemptionengine

import (
	"log/slog"

	"domin/contexts/delegation/redemption-engine/adapters/delegates"
	httpadapter "domin/contexts/delegation/redemption-engine/adapters/http"
	"domin/contexts/delegation/redemption-engine/adapters/memory"
	"domin/contexts/delegation/redemption-engine/application"
	"domin/contexts/delegation/redemption-engine/application/workers"
	"domin/contexts/delegation/redemption-engine/ports"
)

// Module is the redemption-engine composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service *application.Service
	Relay   workers.OutboxRelay
	Store   *memory.Store
	Assets  *memory.AssetRegistry
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Bindings  ports.BindingChecker
	Fees      ports.FeeCharger
	Assets    ports.AssetRegistry
	Delegates ports.DelegateResolver
	Repo      ports.Repository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.AuditPublisher
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.NewService(
		deps.Bindings,
		deps.Fees,
		deps.Assets,
		deps.Delegates,
		deps.Repo,
		deps.Clock,
		deps.IDGen,
		deps.Logger,
	)
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		Relay: workers.OutboxRelay{
			Outbox:    deps.Repo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters: audit store, asset registry, and the default delegate registry.
func NewInMemoryModule(
	bindings ports.BindingChecker,
	fees ports.FeeCharger,
	publisher ports.AuditPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	assets := memory.NewAssetRegistry()
	module := NewModule(Dependencies{
		Bindings:  bindings,
		Fees:      fees,
		Assets:    assets,
		Delegates: delegates.NewDefaultRegistry(assets, logger),
		Repo:      store,
		Clock:     store,
		IDGen:     store,
		Publisher: publisher,
		Logger:    logger,
	})
	module.Store = store
	module.Assets = assets
	return module
}
