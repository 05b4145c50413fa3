package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"domin/contexts/delegation/delegation-ledger/adapters/memory"
	"domin/contexts/delegation/delegation-ledger/domain/entities"
	domainerrors "domin/contexts/delegation/delegation-ledger/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type stubGuard struct {
	allowed map[string]bool
}

func (g stubGuard) CanCall(_ context.Context, principal string, _ string, selector string) (bool, error) {
	return g.allowed[principal+"|"+selector], nil
}

func newTestService(clock *fixedClock, guard stubGuard) Service {
	store := memory.NewStore()
	return Service{
		Repo:           store,
		Guard:          guard,
		Idempotency:    store,
		Clock:          clock,
		IdempotencyTTL: 7 * 24 * time.Hour,
	}
}

func minterGuard() stubGuard {
	return stubGuard{allowed: map[string]bool{
		"minter-1|" + entities.SelectorMintAuthorizer: true,
	}}
}

func TestMintAuthorizerRequiresMintRole(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	_, err := service.MintAuthorizer(context.Background(), "key-1", "stranger", "alice")
	if !errors.Is(err, domainerrors.ErrUnauthorizedMint) {
		t.Fatalf("expected unauthorized mint, got %v", err)
	}

	token, err := service.MintAuthorizer(context.Background(), "key-2", "minter-1", "alice")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if token.TokenID != 1 || token.Owner != "alice" {
		t.Fatalf("unexpected token %+v", token)
	}
}

func TestMintAuthorizerIdempotentReplay(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	first, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	replay, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.TokenID != first.TokenID {
		t.Fatalf("replay allocated a new token: %d vs %d", replay.TokenID, first.TokenID)
	}

	_, err = service.MintAuthorizer(context.Background(), "key-1", "minter-1", "bob")
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestMintOperatorEnforcesSingleSlot(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}

	operator, err := service.MintOperator(context.Background(), "key-2", "alice", 1, "bob")
	if err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}
	if operator.TokenID != 1 || operator.ParentAuthorizerID != 1 {
		t.Fatalf("unexpected operator %+v", operator)
	}

	_, err = service.MintOperator(context.Background(), "key-3", "alice", 1, "carol")
	if !errors.Is(err, domainerrors.ErrOperatorSlotTaken) {
		t.Fatalf("expected slot taken, got %v", err)
	}
}

func TestMintOperatorRequiresAuthorizerOwner(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}

	_, err := service.MintOperator(context.Background(), "key-2", "stranger", 1, "bob")
	if !errors.Is(err, domainerrors.ErrNotAuthorizerOwner) {
		t.Fatalf("expected not-owner, got %v", err)
	}
}

func TestCheckBindingHappyPathStandardDelegate(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-2", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}

	binding, err := service.CheckBinding(context.Background(), "alice", 1, 1)
	if err != nil {
		t.Fatalf("check binding failed: %v", err)
	}
	if binding.DelegateRef != entities.StandardDelegate {
		t.Fatalf("expected standard delegate, got %s", binding.DelegateRef)
	}
	if !binding.Verified {
		t.Fatal("standard delegate must always be verified")
	}
}

func TestCheckBindingRejectsNonOwner(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-2", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}

	_, err := service.CheckBinding(context.Background(), "bob", 1, 1)
	if !errors.Is(err, domainerrors.ErrForbiddenRedeem) {
		t.Fatalf("expected forbidden redeem, got %v", err)
	}
}

func TestCheckBindingRejectsOperatorMismatch(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer 1 failed: %v", err)
	}
	if _, err := service.MintAuthorizer(context.Background(), "key-2", "minter-1", "dana"); err != nil {
		t.Fatalf("mint authorizer 2 failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-3", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}

	// Operator moves under authorizer 2; authorizer 1's owner no longer has a
	// bound operator.
	if _, err := service.RegisterParent(context.Background(), "bob", 1, 2); err != nil {
		t.Fatalf("register parent failed: %v", err)
	}

	_, err := service.CheckBinding(context.Background(), "alice", 1, 1)
	if !errors.Is(err, domainerrors.ErrForbiddenRedeemOperatorMismatch) {
		t.Fatalf("expected operator mismatch, got %v", err)
	}

	binding, err := service.CheckBinding(context.Background(), "dana", 2, 1)
	if err != nil {
		t.Fatalf("check binding after re-register failed: %v", err)
	}
	if binding.AuthorizerID != 2 || binding.OperatorID != 1 {
		t.Fatalf("unexpected binding %+v", binding)
	}
}

func TestRegisterParentRejectsOccupiedSlot(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer 1 failed: %v", err)
	}
	if _, err := service.MintAuthorizer(context.Background(), "key-2", "minter-1", "dana"); err != nil {
		t.Fatalf("mint authorizer 2 failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-3", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator 1 failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-4", "dana", 2, "carol"); err != nil {
		t.Fatalf("mint operator 2 failed: %v", err)
	}

	_, err := service.RegisterParent(context.Background(), "bob", 1, 2)
	if !errors.Is(err, domainerrors.ErrOperatorSlotTaken) {
		t.Fatalf("expected slot taken, got %v", err)
	}
}

func TestVerificationTravelsWithAuthorizerDelegatePair(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-2", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}
	if _, err := service.SetDelegate(context.Background(), "bob", 1, "delegate:burn"); err != nil {
		t.Fatalf("set delegate failed: %v", err)
	}

	binding, err := service.CheckBinding(context.Background(), "alice", 1, 1)
	if err != nil {
		t.Fatalf("check binding failed: %v", err)
	}
	if binding.Verified {
		t.Fatal("unattested delegate must report unverified")
	}

	if err := service.SetVerified(context.Background(), "alice", 1, "delegate:burn", true); err != nil {
		t.Fatalf("set verified failed: %v", err)
	}
	binding, err = service.CheckBinding(context.Background(), "alice", 1, 1)
	if err != nil {
		t.Fatalf("check binding failed: %v", err)
	}
	if !binding.Verified {
		t.Fatal("attested delegate must report verified")
	}

	// Only the authorizer owner may attest.
	err = service.SetVerified(context.Background(), "bob", 1, "delegate:burn", false)
	if !errors.Is(err, domainerrors.ErrNotAuthorizerOwner) {
		t.Fatalf("expected not-owner, got %v", err)
	}
}

func TestTransferAuthorizerMovesRedeemAuthority(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock, minterGuard())

	if _, err := service.MintAuthorizer(context.Background(), "key-1", "minter-1", "alice"); err != nil {
		t.Fatalf("mint authorizer failed: %v", err)
	}
	if _, err := service.MintOperator(context.Background(), "key-2", "alice", 1, "bob"); err != nil {
		t.Fatalf("mint operator failed: %v", err)
	}

	if _, err := service.TransferAuthorizer(context.Background(), "alice", 1, "erin"); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if _, err := service.CheckBinding(context.Background(), "alice", 1, 1); !errors.Is(err, domainerrors.ErrForbiddenRedeem) {
		t.Fatalf("old owner must be rejected, got %v", err)
	}
	if _, err := service.CheckBinding(context.Background(), "erin", 1, 1); err != nil {
		t.Fatalf("new owner must pass, got %v", err)
	}
}
