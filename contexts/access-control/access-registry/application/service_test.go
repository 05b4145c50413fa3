package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"domin/contexts/access-control/access-registry/adapters/memory"
	domainerrors "domin/contexts/access-control/access-registry/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func newTestService(clock *fixedClock) Service {
	return Service{
		Repo:           memory.NewStore(),
		Clock:          clock,
		AdminPrincipal: "admin-1",
	}
}

func TestGrantRoleRequiresAdmin(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	_, err := service.GrantRole(context.Background(), "intruder", 1, "minter-1", 0)
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, err := service.GrantRole(context.Background(), "admin-1", 1, "minter-1", 0); err != nil {
		t.Fatalf("grant by admin failed: %v", err)
	}
}

func TestHasRoleRespectsActivationDelay(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	if _, err := service.GrantRole(context.Background(), "admin-1", 2, "auditor-1", time.Hour); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	active, delay, err := service.HasRole(context.Background(), 2, "auditor-1")
	if err != nil {
		t.Fatalf("has role failed: %v", err)
	}
	if active {
		t.Fatal("grant must not be active before the delay elapses")
	}
	if delay != time.Hour {
		t.Fatalf("expected 1h delay, got %s", delay)
	}

	clock.now = clock.now.Add(time.Hour)
	active, _, err = service.HasRole(context.Background(), 2, "auditor-1")
	if err != nil {
		t.Fatalf("has role failed: %v", err)
	}
	if !active {
		t.Fatal("grant must be active once the delay elapses")
	}
}

func TestHasRoleUnknownRole(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	_, _, err := service.HasRole(context.Background(), 99, "anyone")
	if !errors.Is(err, domainerrors.ErrUnknownRole) {
		t.Fatalf("expected unknown role, got %v", err)
	}
}

func TestCanCallFallsBackWhenUnbound(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	decision, err := service.CanCall(context.Background(), "minter-1", "delegation-ledger", "0x11223344")
	if err != nil {
		t.Fatalf("can call failed: %v", err)
	}
	if decision.Bound || decision.Allowed {
		t.Fatalf("expected unbound deny decision, got %+v", decision)
	}
}

func TestCanCallBoundSelector(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	selector := "0x11223344"
	if _, err := service.SetTargetFunctionRole(context.Background(), "admin-1", "delegation-ledger", []string{selector}, 1); err != nil {
		t.Fatalf("set binding failed: %v", err)
	}
	if _, err := service.GrantRole(context.Background(), "admin-1", 1, "minter-1", 0); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	decision, err := service.CanCall(context.Background(), "minter-1", "delegation-ledger", selector)
	if err != nil {
		t.Fatalf("can call failed: %v", err)
	}
	if !decision.Bound || !decision.Allowed || decision.RoleID != 1 {
		t.Fatalf("expected allow via role 1, got %+v", decision)
	}

	decision, err = service.CanCall(context.Background(), "stranger", "delegation-ledger", selector)
	if err != nil {
		t.Fatalf("can call failed: %v", err)
	}
	if !decision.Bound || decision.Allowed {
		t.Fatalf("expected bound deny for stranger, got %+v", decision)
	}
}

func TestSetTargetFunctionRoleValidatesSelectors(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := newTestService(clock)

	_, err := service.SetTargetFunctionRole(context.Background(), "admin-1", "delegation-ledger", []string{"bogus"}, 1)
	if !errors.Is(err, domainerrors.ErrInvalidSelector) {
		t.Fatalf("expected invalid selector, got %v", err)
	}

	_, err = service.SetTargetFunctionRole(context.Background(), "admin-1", "delegation-ledger", nil, 1)
	if !errors.Is(err, domainerrors.ErrEmptySelectors) {
		t.Fatalf("expected empty selector error, got %v", err)
	}
}
