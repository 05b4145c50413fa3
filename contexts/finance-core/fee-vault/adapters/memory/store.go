package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"domin/contexts/finance-core/fee-vault/domain/entities"
	domainerrors "domin/contexts/finance-core/fee-vault/domain/errors"
	"domin/contexts/finance-core/fee-vault/ports"
)

// Store keeps vault state in process memory. Intended for tests and local
// bootstrap.
type Store struct {
	mu sync.RWMutex

	config      entities.FeeConfig
	configSet   bool
	balances    map[uint64]entities.FeeBalance
	rewards     map[uint64]entities.RewardAccrual
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		balances:    map[uint64]entities.FeeBalance{},
		rewards:     map[uint64]entities.RewardAccrual{},
		idempotency: map[string]ports.IdempotencyRecord{},
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) SetFeeConfig(_ context.Context, config entities.FeeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = config
	s.configSet = true
	return nil
}

func (s *Store) GetFeeConfig(_ context.Context) (entities.FeeConfig, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.configSet, nil
}

func (s *Store) Credit(_ context.Context, authorizerID uint64, amount int64, now time.Time) (entities.FeeBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balances[authorizerID]
	balance.AuthorizerID = authorizerID
	balance.Balance += amount
	balance.UpdatedAt = now
	s.balances[authorizerID] = balance
	return balance, nil
}

func (s *Store) Debit(_ context.Context, authorizerID uint64, fee int64, reward int64, now time.Time) (entities.FeeBalance, entities.RewardAccrual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balances[authorizerID]
	if balance.Balance < fee {
		return entities.FeeBalance{}, entities.RewardAccrual{}, fmt.Errorf("%w: authorizer %d", domainerrors.ErrInsufficientPrepaidFee, authorizerID)
	}
	balance.AuthorizerID = authorizerID
	balance.Balance -= fee
	balance.UpdatedAt = now
	s.balances[authorizerID] = balance

	accrual := s.rewards[authorizerID]
	accrual.AuthorizerID = authorizerID
	accrual.Accrued += reward
	accrual.UpdatedAt = now
	s.rewards[authorizerID] = accrual

	return balance, accrual, nil
}

func (s *Store) GetBalance(_ context.Context, authorizerID uint64) (entities.FeeBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance := s.balances[authorizerID]
	balance.AuthorizerID = authorizerID
	return balance, nil
}

func (s *Store) GetReward(_ context.Context, authorizerID uint64) (entities.RewardAccrual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accrual := s.rewards[authorizerID]
	accrual.AuthorizerID = authorizerID
	return accrual, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.idempotency[key]
	if !ok || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idempotency[record.Key] = record
	return nil
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
