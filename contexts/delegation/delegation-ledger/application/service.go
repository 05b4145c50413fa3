package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"domin/contexts/delegation/delegation-ledger/domain/entities"
	domainerrors "domin/contexts/delegation/delegation-ledger/domain/errors"
	"domin/contexts/delegation/delegation-ledger/ports"
)

// Service implements minting, delegation, verification, and the CheckBinding
// validation consumed by the redemption engine.
type Service struct {
	Repo              ports.Repository
	Guard             ports.AuthorizationGuard
	Idempotency       ports.IdempotencyStore
	Clock             ports.Clock
	IdempotencyTTL    time.Duration
	AuthorizerBaseURI string
	OperatorBaseURI   string
	Logger            *slog.Logger
}

// MintAuthorizer allocates the next authorizer token for owner. The caller
// must hold the role bound to the mint selector; without a binding the ledger
// denies.
func (s Service) MintAuthorizer(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	owner string,
) (entities.AuthorizerToken, error) {
	var out entities.AuthorizerToken
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return out, domainerrors.ErrInvalidOwner
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	allowed, err := s.Guard.CanCall(ctx, caller, entities.TargetName, entities.SelectorMintAuthorizer)
	if err != nil {
		return out, err
	}
	if !allowed {
		return out, fmt.Errorf("%w: %s", domainerrors.ErrUnauthorizedMint, caller)
	}

	requestHash := hashStrings("ledger_mint_authorizer", caller, owner)
	err = s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			token, err := s.Repo.MintAuthorizer(ctx, ports.MintAuthorizerInput{
				Owner:    owner,
				MintedAt: s.now(),
			})
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("authorizer token minted",
				"event", "ledger_authorizer_minted",
				"module", "delegation/delegation-ledger",
				"layer", "application",
				"token_id", token.TokenID,
				"owner", owner,
			)
			return json.Marshal(token)
		},
	)
	return out, err
}

// MintOperator creates the single operator token bound to authorizerID. The
// caller must own the parent authorizer, or hold the role bound to the
// operator mint selector (a minter acting on the owner's behalf).
func (s Service) MintOperator(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	authorizerID uint64,
	owner string,
) (entities.OperatorToken, error) {
	var out entities.OperatorToken
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return out, domainerrors.ErrInvalidOwner
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	authorizer, err := s.Repo.GetAuthorizer(ctx, authorizerID)
	if err != nil {
		return out, err
	}
	if authorizer.Owner != caller {
		allowed, err := s.Guard.CanCall(ctx, caller, entities.TargetName, entities.SelectorMintOperator)
		if err != nil {
			return out, err
		}
		if !allowed {
			return out, fmt.Errorf("%w: %s", domainerrors.ErrNotAuthorizerOwner, caller)
		}
	}

	requestHash := hashStrings("ledger_mint_operator", caller, strconv.FormatUint(authorizerID, 10), owner)
	err = s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			token, err := s.Repo.MintOperator(ctx, ports.MintOperatorInput{
				ParentAuthorizerID: authorizerID,
				Owner:              owner,
				MintedAt:           s.now(),
			})
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("operator token minted",
				"event", "ledger_operator_minted",
				"module", "delegation/delegation-ledger",
				"layer", "application",
				"token_id", token.TokenID,
				"parent_authorizer_id", authorizerID,
				"owner", owner,
			)
			return json.Marshal(token)
		},
	)
	return out, err
}

// RegisterParent moves the operator token under a different authorizer. The
// new parent must exist and must not already have a bound operator.
func (s Service) RegisterParent(
	ctx context.Context,
	caller string,
	operatorID uint64,
	newAuthorizerID uint64,
) (entities.OperatorToken, error) {
	operator, err := s.Repo.GetOperator(ctx, operatorID)
	if err != nil {
		return entities.OperatorToken{}, err
	}
	if operator.Owner != caller {
		return entities.OperatorToken{}, fmt.Errorf("%w: %s", domainerrors.ErrNotOperatorOwner, caller)
	}
	if _, err := s.Repo.GetAuthorizer(ctx, newAuthorizerID); err != nil {
		return entities.OperatorToken{}, err
	}
	if operator.ParentAuthorizerID == newAuthorizerID {
		return operator, nil
	}
	if _, taken, err := s.Repo.FindOperatorByParent(ctx, newAuthorizerID); err != nil {
		return entities.OperatorToken{}, err
	} else if taken {
		return entities.OperatorToken{}, domainerrors.ErrOperatorSlotTaken
	}

	updated, err := s.Repo.RegisterParent(ctx, operatorID, newAuthorizerID, s.now())
	if err != nil {
		return entities.OperatorToken{}, err
	}
	ResolveLogger(s.Logger).Info("operator re-registered",
		"event", "ledger_operator_reregistered",
		"module", "delegation/delegation-ledger",
		"layer", "application",
		"token_id", operatorID,
		"new_authorizer_id", newAuthorizerID,
	)
	return updated, nil
}

// SetDelegate binds the executable delegate for the operator token.
// Verification state is keyed by (authorizer, delegate) and is deliberately
// left untouched here.
func (s Service) SetDelegate(
	ctx context.Context,
	caller string,
	operatorID uint64,
	delegateRef string,
) (entities.OperatorToken, error) {
	delegateRef = strings.TrimSpace(delegateRef)
	if delegateRef == "" {
		return entities.OperatorToken{}, domainerrors.ErrInvalidDelegate
	}
	operator, err := s.Repo.GetOperator(ctx, operatorID)
	if err != nil {
		return entities.OperatorToken{}, err
	}
	if operator.Owner != caller {
		return entities.OperatorToken{}, fmt.Errorf("%w: %s", domainerrors.ErrNotOperatorOwner, caller)
	}
	return s.Repo.SetDelegate(ctx, operatorID, delegateRef, s.now())
}

// SetVerified records the authorizer owner's attestation for a delegate.
func (s Service) SetVerified(
	ctx context.Context,
	caller string,
	authorizerID uint64,
	delegateRef string,
	verified bool,
) error {
	delegateRef = strings.TrimSpace(delegateRef)
	if delegateRef == "" {
		return domainerrors.ErrInvalidDelegate
	}
	authorizer, err := s.Repo.GetAuthorizer(ctx, authorizerID)
	if err != nil {
		return err
	}
	if authorizer.Owner != caller {
		return fmt.Errorf("%w: %s", domainerrors.ErrNotAuthorizerOwner, caller)
	}
	if err := s.Repo.SetVerification(ctx, entities.DelegateVerification{
		AuthorizerID: authorizerID,
		DelegateRef:  delegateRef,
		Verified:     verified,
		UpdatedAt:    s.now(),
	}); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("delegate verification set",
		"event", "ledger_delegate_verification_set",
		"module", "delegation/delegation-ledger",
		"layer", "application",
		"authorizer_id", authorizerID,
		"delegate_ref", delegateRef,
		"verified", verified,
	)
	return nil
}

// CheckBinding validates that caller owns the authorizer and that the
// operator is bound to it, and resolves the delegate plus its verification
// state. Failures here abort a redemption before any side effect.
func (s Service) CheckBinding(
	ctx context.Context,
	caller string,
	authorizerID uint64,
	operatorID uint64,
) (entities.Binding, error) {
	authorizer, err := s.Repo.GetAuthorizer(ctx, authorizerID)
	if err != nil {
		return entities.Binding{}, err
	}
	if authorizer.Owner != caller {
		return entities.Binding{}, fmt.Errorf("%w: %s", domainerrors.ErrForbiddenRedeem, caller)
	}

	operator, err := s.Repo.GetOperator(ctx, operatorID)
	if err != nil {
		return entities.Binding{}, err
	}
	if operator.ParentAuthorizerID != authorizerID {
		return entities.Binding{}, fmt.Errorf("%w: %s", domainerrors.ErrForbiddenRedeemOperatorMismatch, authorizer.Owner)
	}

	delegateRef := operator.DelegateRef()
	verified := true
	if delegateRef != entities.StandardDelegate {
		verified, err = s.Repo.GetVerification(ctx, authorizerID, delegateRef)
		if err != nil {
			return entities.Binding{}, err
		}
	}
	return entities.Binding{
		AuthorizerID: authorizerID,
		OperatorID:   operatorID,
		DelegateRef:  delegateRef,
		Verified:     verified,
	}, nil
}

// TransferAuthorizer moves authorizer ownership; subsequent redemptions must
// come from the new owner.
func (s Service) TransferAuthorizer(ctx context.Context, caller string, tokenID uint64, newOwner string) (entities.AuthorizerToken, error) {
	newOwner = strings.TrimSpace(newOwner)
	if newOwner == "" {
		return entities.AuthorizerToken{}, domainerrors.ErrInvalidOwner
	}
	authorizer, err := s.Repo.GetAuthorizer(ctx, tokenID)
	if err != nil {
		return entities.AuthorizerToken{}, err
	}
	if authorizer.Owner != caller {
		return entities.AuthorizerToken{}, fmt.Errorf("%w: %s", domainerrors.ErrNotAuthorizerOwner, caller)
	}
	return s.Repo.TransferAuthorizer(ctx, tokenID, newOwner, s.now())
}

// TransferOperator moves operator ownership.
func (s Service) TransferOperator(ctx context.Context, caller string, tokenID uint64, newOwner string) (entities.OperatorToken, error) {
	newOwner = strings.TrimSpace(newOwner)
	if newOwner == "" {
		return entities.OperatorToken{}, domainerrors.ErrInvalidOwner
	}
	operator, err := s.Repo.GetOperator(ctx, tokenID)
	if err != nil {
		return entities.OperatorToken{}, err
	}
	if operator.Owner != caller {
		return entities.OperatorToken{}, fmt.Errorf("%w: %s", domainerrors.ErrNotOperatorOwner, caller)
	}
	return s.Repo.TransferOperator(ctx, tokenID, newOwner, s.now())
}

// GetAuthorizer returns one authorizer token.
func (s Service) GetAuthorizer(ctx context.Context, tokenID uint64) (entities.AuthorizerToken, error) {
	return s.Repo.GetAuthorizer(ctx, tokenID)
}

// GetOperator returns one operator token.
func (s Service) GetOperator(ctx context.Context, tokenID uint64) (entities.OperatorToken, error) {
	return s.Repo.GetOperator(ctx, tokenID)
}

// AuthorizerURI returns the metadata URI for an authorizer token.
func (s Service) AuthorizerURI(ctx context.Context, tokenID uint64) (string, error) {
	if _, err := s.Repo.GetAuthorizer(ctx, tokenID); err != nil {
		return "", err
	}
	return s.AuthorizerBaseURI + strconv.FormatUint(tokenID, 10), nil
}

// OperatorURI returns the metadata URI for an operator token.
func (s Service) OperatorURI(ctx context.Context, tokenID uint64) (string, error) {
	if _, err := s.Repo.GetOperator(ctx, tokenID); err != nil {
		return "", err
	}
	return s.OperatorBaseURI + strconv.FormatUint(tokenID, 10), nil
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
