package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"domin/contexts/delegation/delegation-ledger/domain/entities"
	domainerrors "domin/contexts/delegation/delegation-ledger/domain/errors"
	"domin/contexts/delegation/delegation-ledger/ports"
)

// Store keeps token state in process memory. Intended for tests and local
// bootstrap.
type Store struct {
	mu sync.RWMutex

	nextAuthorizerID uint64
	nextOperatorID   uint64

	authorizers   map[uint64]entities.AuthorizerToken
	operators     map[uint64]entities.OperatorToken
	byParent      map[uint64]uint64
	verifications map[string]entities.DelegateVerification
	idempotency   map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		nextAuthorizerID: 1,
		nextOperatorID:   1,
		authorizers:      map[uint64]entities.AuthorizerToken{},
		operators:        map[uint64]entities.OperatorToken{},
		byParent:         map[uint64]uint64{},
		verifications:    map[string]entities.DelegateVerification{},
		idempotency:      map[string]ports.IdempotencyRecord{},
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) MintAuthorizer(_ context.Context, input ports.MintAuthorizerInput) (entities.AuthorizerToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := entities.AuthorizerToken{
		TokenID:  s.nextAuthorizerID,
		Owner:    input.Owner,
		MintedAt: input.MintedAt,
	}
	s.nextAuthorizerID++
	s.authorizers[token.TokenID] = token
	return token, nil
}

func (s *Store) MintOperator(_ context.Context, input ports.MintOperatorInput) (entities.OperatorToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authorizers[input.ParentAuthorizerID]; !ok {
		return entities.OperatorToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownAuthorizer, input.ParentAuthorizerID)
	}
	if _, taken := s.byParent[input.ParentAuthorizerID]; taken {
		return entities.OperatorToken{}, domainerrors.ErrOperatorSlotTaken
	}

	token := entities.OperatorToken{
		TokenID:            s.nextOperatorID,
		Owner:              input.Owner,
		ParentAuthorizerID: input.ParentAuthorizerID,
		MintedAt:           input.MintedAt,
		UpdatedAt:          input.MintedAt,
	}
	s.nextOperatorID++
	s.operators[token.TokenID] = token
	s.byParent[input.ParentAuthorizerID] = token.TokenID
	return token, nil
}

func (s *Store) GetAuthorizer(_ context.Context, tokenID uint64) (entities.AuthorizerToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.authorizers[tokenID]
	if !ok {
		return entities.AuthorizerToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownAuthorizer, tokenID)
	}
	return token, nil
}

func (s *Store) GetOperator(_ context.Context, tokenID uint64) (entities.OperatorToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.operators[tokenID]
	if !ok {
		return entities.OperatorToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownOperator, tokenID)
	}
	return token, nil
}

func (s *Store) FindOperatorByParent(_ context.Context, authorizerID uint64) (entities.OperatorToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	operatorID, ok := s.byParent[authorizerID]
	if !ok {
		return entities.OperatorToken{}, false, nil
	}
	return s.operators[operatorID], true, nil
}

func (s *Store) RegisterParent(_ context.Context, operatorID uint64, newAuthorizerID uint64, now time.Time) (entities.OperatorToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.operators[operatorID]
	if !ok {
		return entities.OperatorToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownOperator, operatorID)
	}
	if _, taken := s.byParent[newAuthorizerID]; taken {
		return entities.OperatorToken{}, domainerrors.ErrOperatorSlotTaken
	}

	delete(s.byParent, token.ParentAuthorizerID)
	token.ParentAuthorizerID = newAuthorizerID
	token.UpdatedAt = now
	s.operators[operatorID] = token
	s.byParent[newAuthorizerID] = operatorID
	return token, nil
}

func (s *Store) SetDelegate(_ context.Context, operatorID uint64, delegateRef string, now time.Time) (entities.OperatorToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.operators[operatorID]
	if !ok {
		return entities.OperatorToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownOperator, operatorID)
	}
	token.BoundDelegate = delegateRef
	token.UpdatedAt = now
	s.operators[operatorID] = token
	return token, nil
}

func (s *Store) SetVerification(_ context.Context, verification entities.DelegateVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verifications[verificationKey(verification.AuthorizerID, verification.DelegateRef)] = verification
	return nil
}

func (s *Store) GetVerification(_ context.Context, authorizerID uint64, delegateRef string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	verification, ok := s.verifications[verificationKey(authorizerID, delegateRef)]
	if !ok {
		return false, nil
	}
	return verification.Verified, nil
}

func (s *Store) TransferAuthorizer(_ context.Context, tokenID uint64, newOwner string, _ time.Time) (entities.AuthorizerToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.authorizers[tokenID]
	if !ok {
		return entities.AuthorizerToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownAuthorizer, tokenID)
	}
	token.Owner = newOwner
	s.authorizers[tokenID] = token
	return token, nil
}

func (s *Store) TransferOperator(_ context.Context, tokenID uint64, newOwner string, now time.Time) (entities.OperatorToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.operators[tokenID]
	if !ok {
		return entities.OperatorToken{}, fmt.Errorf("%w: %d", domainerrors.ErrUnknownOperator, tokenID)
	}
	token.Owner = newOwner
	token.UpdatedAt = now
	s.operators[tokenID] = token
	return token, nil
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

func verificationKey(authorizerID uint64, delegateRef string) string {
	return fmt.Sprintf("%d|%s", authorizerID, delegateRef)
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
