package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	eventsv1 "domin/contracts/gen/events/v1"
	"domin/contexts/delegation/redemption-engine/domain/entities"
	domainerrors "domin/contexts/delegation/redemption-engine/domain/errors"
	"domin/contexts/delegation/redemption-engine/ports"
)

// TopicRedemptionAudited receives one envelope per audit record.
const TopicRedemptionAudited = "redemption.audited"

// Service executes redemption batches. Concurrent batches on the same
// authorizer are serialized through a per-authorizer mutex; different
// authorizers proceed in parallel.
type Service struct {
	Bindings  ports.BindingChecker
	Fees      ports.FeeCharger
	Assets    ports.AssetRegistry
	Delegates ports.DelegateResolver
	Repo      ports.Repository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewService wires the engine. The struct literal form is fine for tests but
// the keyed-mutex map must come from here.
func NewService(
	bindings ports.BindingChecker,
	fees ports.FeeCharger,
	assets ports.AssetRegistry,
	delegates ports.DelegateResolver,
	repo ports.Repository,
	clock ports.Clock,
	idGen ports.IDGenerator,
	logger *slog.Logger,
) *Service {
	return &Service{
		Bindings:  bindings,
		Fees:      fees,
		Assets:    assets,
		Delegates: delegates,
		Repo:      repo,
		Clock:     clock,
		IDGen:     idGen,
		Logger:    logger,
		locks:     map[uint64]*sync.Mutex{},
	}
}

// Redeem validates the binding, prechecks fee and every request, executes the
// delegate over the batch, debits the flat fee, and persists audit records
// with outbox rows. Fails closed: any error before execution leaves no side
// effect anywhere.
func (s *Service) Redeem(
	ctx context.Context,
	caller string,
	authorizerID uint64,
	operatorID uint64,
	requests []entities.RedemptionRequest,
) ([]entities.AuditRecord, error) {
	if len(requests) == 0 {
		return nil, domainerrors.ErrEmptyBatch
	}

	lock := s.authorizerLock(authorizerID)
	lock.Lock()
	defer lock.Unlock()

	binding, err := s.Bindings.CheckBinding(ctx, caller, authorizerID, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.Fees.EnsureFunds(ctx, authorizerID); err != nil {
		return nil, err
	}
	delegate, err := s.Delegates.Resolve(binding.DelegateRef)
	if err != nil {
		return nil, err
	}

	// Resolve owners and precheck the whole batch before touching any asset.
	delegateRequests := make([]ports.DelegateRequest, 0, len(requests))
	for _, request := range requests {
		owner, err := s.Assets.OwnerOf(ctx, request.AssetRef, request.AssetID)
		if err != nil {
			return nil, err
		}
		delegateRequest := ports.DelegateRequest{
			AssetRef:   request.AssetRef,
			AssetID:    request.AssetID,
			AssetOwner: owner,
			Memo:       request.Memo,
		}
		if err := delegate.Precheck(ctx, delegateRequest); err != nil {
			return nil, err
		}
		delegateRequests = append(delegateRequests, delegateRequest)
	}

	for _, delegateRequest := range delegateRequests {
		if err := delegate.Execute(ctx, delegateRequest); err != nil {
			return nil, err
		}
	}

	if err := s.Fees.DebitForRedemption(ctx, authorizerID); err != nil {
		return nil, err
	}

	now := s.now()

	records := make([]entities.AuditRecord, 0, len(requests))
	outbox := make([]ports.OutboxMessage, 0, len(requests))
	for i, delegateRequest := range delegateRequests {
		auditID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		record := entities.AuditRecord{
			AuditID:      auditID,
			RedemptionID: requests[i].RedemptionID,
			AuthorizerID: authorizerID,
			OperatorID:   operatorID,
			DelegateRef:  binding.DelegateRef,
			AssetRef:     delegateRequest.AssetRef,
			AssetID:      delegateRequest.AssetID,
			AssetOwner:   delegateRequest.AssetOwner,
			Memo:         entities.TagMemo(delegateRequest.Memo, binding.Verified),
			RedeemedAt:   now,
		}
		records = append(records, record)

		outboxID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := buildAuditedEnvelope(record)
		if err != nil {
			return nil, err
		}
		outbox = append(outbox, ports.OutboxMessage{
			OutboxID:  outboxID,
			Topic:     TopicRedemptionAudited,
			Payload:   payload,
			CreatedAt: now,
		})
	}

	if err := s.Repo.AppendAudit(ctx, records, outbox); err != nil {
		return nil, err
	}

	ResolveLogger(s.Logger).Info("redemption batch executed",
		"event", "redemption_batch_executed",
		"module", "delegation/redemption-engine",
		"layer", "application",
		"authorizer_id", authorizerID,
		"operator_id", operatorID,
		"delegate_ref", binding.DelegateRef,
		"verified", binding.Verified,
		"requests", len(requests),
	)
	return records, nil
}

// ListAudits returns recent audit records for one authorizer.
func (s *Service) ListAudits(ctx context.Context, authorizerID uint64, limit int) ([]entities.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Repo.ListAuditsByAuthorizer(ctx, authorizerID, limit)
}

func (s *Service) authorizerLock(authorizerID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locks == nil {
		s.locks = map[uint64]*sync.Mutex{}
	}
	lock, ok := s.locks[authorizerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[authorizerID] = lock
	}
	return lock
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func buildAuditedEnvelope(record entities.AuditRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventsv1.Envelope{
		EventID:          record.AuditID,
		EventType:        "redemption.audited",
		OccurredAt:       record.RedeemedAt,
		SourceService:    "redemption-engine",
		SchemaVersion:    1,
		PartitionKeyPath: "authorizer_id",
		PartitionKey:     strconv.FormatUint(record.AuthorizerID, 10),
		Data:             data,
	})
}
