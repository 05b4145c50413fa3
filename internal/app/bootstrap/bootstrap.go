package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	accessregistry "domin/contexts/access-control/access-registry"
	registrypostgres "domin/contexts/access-control/access-registry/adapters/postgres"
	registryapp "domin/contexts/access-control/access-registry/application"
	delegationledger "domin/contexts/delegation/delegation-ledger"
	ledgerpostgres "domin/contexts/delegation/delegation-ledger/adapters/postgres"
	ledgerapp "domin/contexts/delegation/delegation-ledger/application"
	ledgerentities "domin/contexts/delegation/delegation-ledger/domain/entities"
	redemptionengine "domin/contexts/delegation/redemption-engine"
	"domin/contexts/delegation/redemption-engine/adapters/delegates"
	enginememory "domin/contexts/delegation/redemption-engine/adapters/memory"
	enginepostgres "domin/contexts/delegation/redemption-engine/adapters/postgres"
	engineworkers "domin/contexts/delegation/redemption-engine/application/workers"
	engineports "domin/contexts/delegation/redemption-engine/ports"
	feevault "domin/contexts/finance-core/fee-vault"
	vaultmemory "domin/contexts/finance-core/fee-vault/adapters/memory"
	vaultpostgres "domin/contexts/finance-core/fee-vault/adapters/postgres"
	vaultapp "domin/contexts/finance-core/fee-vault/application"
	vaultentities "domin/contexts/finance-core/fee-vault/domain/entities"
	eventsv1 "domin/contracts/gen/events/v1"
	"domin/internal/platform/config"
	"domin/internal/platform/db"
	"domin/internal/platform/httpserver"
	"domin/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Role ids seeded at boot. Grants to real principals happen through the
// registry API afterwards.
const (
	roleMinter     uint64 = 1
	roleAuditor    uint64 = 2
	roleAuthorizer uint64 = 3
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        engineworkers.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := accessregistry.NewModule(accessregistry.Dependencies{
		Repository:     registryRepo,
		Clock:          registrypostgres.SystemClock{},
		AdminPrincipal: cfg.RegistryAdminPrincipal,
		Logger:         logger,
	})
	if err := seedAccessBindings(context.Background(), registryModule.Service, cfg.RegistryAdminPrincipal); err != nil {
		return nil, err
	}

	guard := accessGuard{registry: registryModule.Service}

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledgerModule := delegationledger.NewModule(delegationledger.Dependencies{
		Repository:        ledgerRepo,
		Guard:             guard,
		Idempotency:       ledgerRepo,
		Clock:             ledgerpostgres.SystemClock{},
		IdempotencyTTL:    7 * 24 * time.Hour,
		AuthorizerBaseURI: cfg.AuthorizerBaseURI,
		OperatorBaseURI:   cfg.OperatorBaseURI,
		Logger:            logger,
	})

	vaultRepo := vaultpostgres.NewRepository(pg.DB, logger)
	vaultModule := feevault.NewModule(feevault.Dependencies{
		Repository:       vaultRepo,
		Ledger:           vaultmemory.NewTokenLedger(),
		Guard:            guard,
		Idempotency:      vaultRepo,
		Clock:            vaultpostgres.SystemClock{},
		IdempotencyTTL:   7 * 24 * time.Hour,
		DefaultRedeemFee: cfg.DefaultRedeemFee,
		RewardPercentage: cfg.RewardPercentage,
		Logger:           logger,
	})

	engineRepo := enginepostgres.NewRepository(pg.DB, logger)
	assets := enginememory.NewAssetRegistry()
	engineModule := redemptionengine.NewModule(redemptionengine.Dependencies{
		Bindings:  bindingChecker{ledger: ledgerModule.Service},
		Fees:      feeCharger{vault: vaultModule.Service},
		Assets:    assets,
		Delegates: delegates.NewDefaultRegistry(assets, logger),
		Repo:      engineRepo,
		Clock:     enginepostgres.SystemClock{},
		IDGen:     enginepostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(registryModule, ledgerModule, engineModule, vaultModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	// The worker only drains the outbox; it never executes redemptions, so it
	// wires the relay alone instead of a full engine module.
	relay := engineworkers.OutboxRelay{
		Outbox:    enginepostgres.NewRepository(pg.DB, logger),
		Publisher: envelopePublisher{bus: kafka},
		Clock:     enginepostgres.SystemClock{},
		BatchSize: 100,
		Logger:    logger,
	}

	return &WorkerApp{
		postgres:     pg,
		relay:        relay,
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.relayEnabled {
			if err := w.relay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// seedAccessBindings labels the well-known roles and binds the gated
// selectors. Writes are idempotent, so re-running at every boot is safe.
func seedAccessBindings(ctx context.Context, registry registryapp.Service, admin string) error {
	labels := map[uint64]string{
		roleMinter:     "MINTER",
		roleAuditor:    "AUDITOR",
		roleAuthorizer: "AUTHORIZER",
	}
	for roleID, label := range labels {
		if _, err := registry.LabelRole(ctx, admin, roleID, label); err != nil {
			return err
		}
	}

	if _, err := registry.SetTargetFunctionRole(ctx, admin, ledgerentities.TargetName,
		[]string{ledgerentities.SelectorMintAuthorizer, ledgerentities.SelectorMintOperator},
		roleMinter,
	); err != nil {
		return err
	}
	if _, err := registry.SetTargetFunctionRole(ctx, admin, vaultentities.TargetName,
		[]string{vaultentities.SelectorSetFeeCurrency},
		roleAuditor,
	); err != nil {
		return err
	}
	return nil
}

// accessGuard adapts the registry decision API to the boolean guard port the
// ledger and vault consume.
type accessGuard struct {
	registry registryapp.Service
}

func (g accessGuard) CanCall(ctx context.Context, principal string, target string, selector string) (bool, error) {
	decision, err := g.registry.CanCall(ctx, principal, target, selector)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

// bindingChecker adapts the ledger's binding check to the engine port.
// Errors pass through unchanged so the HTTP layer can map them.
type bindingChecker struct {
	ledger ledgerapp.Service
}

func (c bindingChecker) CheckBinding(ctx context.Context, caller string, authorizerID uint64, operatorID uint64) (engineports.Binding, error) {
	binding, err := c.ledger.CheckBinding(ctx, caller, authorizerID, operatorID)
	if err != nil {
		return engineports.Binding{}, err
	}
	return engineports.Binding{
		AuthorizerID: binding.AuthorizerID,
		OperatorID:   binding.OperatorID,
		DelegateRef:  binding.DelegateRef,
		Verified:     binding.Verified,
	}, nil
}

// feeCharger adapts the vault service to the engine's fee port.
type feeCharger struct {
	vault vaultapp.Service
}

func (c feeCharger) EnsureFunds(ctx context.Context, authorizerID uint64) error {
	return c.vault.EnsureFunds(ctx, authorizerID)
}

func (c feeCharger) DebitForRedemption(ctx context.Context, authorizerID uint64) error {
	_, _, err := c.vault.DebitForRedemption(ctx, authorizerID)
	return err
}

// envelopePublisher decodes outbox payloads back into event envelopes before
// handing them to the bus.
type envelopePublisher struct {
	bus *messaging.Kafka
}

func (p envelopePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	var envelope eventsv1.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return err
	}
	return p.bus.Publish(ctx, topic, envelope)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
