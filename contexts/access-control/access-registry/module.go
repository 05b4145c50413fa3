package accessregistry

import (
	"log/slog"

	httpadapter "domin/contexts/access-control/access-registry/adapters/http"
	"domin/contexts/access-control/access-registry/adapters/memory"
	"domin/contexts/access-control/access-registry/application"
	"domin/contexts/access-control/access-registry/ports"
)

// Module is the access-registry composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Clock          ports.Clock
	AdminPrincipal string
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Clock:          deps.Clock,
		AdminPrincipal: deps.AdminPrincipal,
		Logger:         deps.Logger,
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
func NewInMemoryModule(adminPrincipal string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Clock:          store,
		AdminPrincipal: adminPrincipal,
		Logger:         logger,
	})
	module.Store = store
	return module
}
