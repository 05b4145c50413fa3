package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"domin/contexts/delegation/redemption-engine/domain/entities"
	"domin/contexts/delegation/redemption-engine/ports"
)

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

// Store keeps audit and outbox state in process memory.
type Store struct {
	mu     sync.RWMutex
	audits []entities.AuditRecord
	outbox []outboxRow
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) AppendAudit(_ context.Context, records []entities.AuditRecord, outbox []ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audits = append(s.audits, records...)
	for _, message := range outbox {
		s.outbox = append(s.outbox, outboxRow{message: message})
	}
	return nil
}

func (s *Store) ListAuditsByAuthorizer(_ context.Context, authorizerID uint64, limit int) ([]entities.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.AuditRecord, 0, limit)
	for i := len(s.audits) - 1; i >= 0 && len(items) < limit; i-- {
		if s.audits[i].AuthorizerID == authorizerID {
			items = append(items, s.audits[i])
		}
	}
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return nil
}

var (
	_ ports.Repository  = (*Store)(nil)
	_ ports.IDGenerator = (*Store)(nil)
)
