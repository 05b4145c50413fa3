package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	accessregistry "domin/contexts/access-control/access-registry"
	delegationledger "domin/contexts/delegation/delegation-ledger"
	redemptionengine "domin/contexts/delegation/redemption-engine"
	feevault "domin/contexts/finance-core/fee-vault"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "domin/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	registry   accessregistry.Module
	ledger     delegationledger.Module
	redemption redemptionengine.Module
	vault      feevault.Module
}

func New(
	registry accessregistry.Module,
	ledger delegationledger.Module,
	redemption redemptionengine.Module,
	vault feevault.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		registry:   registry,
		ledger:     ledger,
		redemption: redemption,
		vault:      vault,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccessRegistryRoutes()
	s.registerDelegationLedgerRoutes()
	s.registerRedemptionEngineRoutes()
	s.registerFeeVaultRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
