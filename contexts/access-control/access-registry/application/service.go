package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"domin/contexts/access-control/access-registry/domain/entities"
	domainerrors "domin/contexts/access-control/access-registry/domain/errors"
	"domin/contexts/access-control/access-registry/ports"
)

// Service exposes the registry's admin surface and the CanCall predicate.
// All mutations are restricted to AdminPrincipal.
type Service struct {
	Repo           ports.Repository
	Clock          ports.Clock
	AdminPrincipal string
	Logger         *slog.Logger
}

// GrantRole records (or overwrites) a membership with an activation delay.
// Roles are auto-created on first grant.
func (s Service) GrantRole(
	ctx context.Context,
	caller string,
	roleID uint64,
	principal string,
	delay time.Duration,
) (entities.RoleMembership, error) {
	if err := s.requireAdmin(caller); err != nil {
		return entities.RoleMembership{}, err
	}
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return entities.RoleMembership{}, domainerrors.ErrInvalidPrincipal
	}
	if delay < 0 {
		return entities.RoleMembership{}, domainerrors.ErrInvalidDelay
	}

	membership, err := s.Repo.GrantRole(ctx, ports.GrantRoleInput{
		RoleID:    roleID,
		Principal: principal,
		Delay:     delay,
		GrantedAt: s.now(),
	})
	if err != nil {
		return entities.RoleMembership{}, err
	}

	ResolveLogger(s.Logger).Info("role granted",
		"event", "access_role_granted",
		"module", "access-control/access-registry",
		"layer", "application",
		"role_id", roleID,
		"principal", principal,
		"delay", delay.String(),
	)
	return membership, nil
}

// LabelRole attaches a display label. Labels are cosmetic and never consulted
// by CanCall.
func (s Service) LabelRole(ctx context.Context, caller string, roleID uint64, label string) (entities.Role, error) {
	if err := s.requireAdmin(caller); err != nil {
		return entities.Role{}, err
	}
	return s.Repo.LabelRole(ctx, roleID, strings.TrimSpace(label), s.now())
}

// SetTargetFunctionRole binds every listed selector on target to roleID,
// replacing previous bindings.
func (s Service) SetTargetFunctionRole(
	ctx context.Context,
	caller string,
	target string,
	selectors []string,
	roleID uint64,
) ([]entities.FunctionBinding, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, domainerrors.ErrInvalidTarget
	}
	if len(selectors) == 0 {
		return nil, domainerrors.ErrEmptySelectors
	}
	for _, selector := range selectors {
		if !entities.IsValidSelector(selector) {
			return nil, fmt.Errorf("%w: %q", domainerrors.ErrInvalidSelector, selector)
		}
	}

	bindings, err := s.Repo.SetTargetFunctionRole(ctx, ports.SetTargetFunctionRoleInput{
		Target:    target,
		Selectors: selectors,
		RoleID:    roleID,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	ResolveLogger(s.Logger).Info("target function role set",
		"event", "access_target_function_role_set",
		"module", "access-control/access-registry",
		"layer", "application",
		"target", target,
		"selector_count", len(selectors),
		"role_id", roleID,
	)
	return bindings, nil
}

// HasRole reports whether principal's grant is active and returns its delay.
// Unknown roles surface ErrUnknownRole rather than a silent false.
func (s Service) HasRole(ctx context.Context, roleID uint64, principal string) (bool, time.Duration, error) {
	if _, err := s.Repo.GetRole(ctx, roleID); err != nil {
		return false, 0, err
	}
	membership, found, err := s.Repo.GetMembership(ctx, roleID, strings.TrimSpace(principal))
	if err != nil {
		return false, 0, err
	}
	if !found {
		return false, 0, nil
	}
	return membership.IsActive(s.now()), membership.Delay, nil
}

// GetRole returns the role record, including its label.
func (s Service) GetRole(ctx context.Context, roleID uint64) (entities.Role, error) {
	return s.Repo.GetRole(ctx, roleID)
}

// ListRoleMembers returns every membership recorded for the role.
func (s Service) ListRoleMembers(ctx context.Context, roleID uint64) ([]entities.RoleMembership, error) {
	if _, err := s.Repo.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	return s.Repo.ListRoleMembers(ctx, roleID)
}

// GetTargetFunctionRole returns the binding for one (target, selector) pair.
func (s Service) GetTargetFunctionRole(ctx context.Context, target string, selector string) (entities.FunctionBinding, error) {
	return s.Repo.GetTargetFunctionRole(ctx, strings.TrimSpace(target), strings.TrimSpace(selector))
}

// CanCall is the reusable authorization predicate consumed by gated entry
// points. When no binding exists the decision reports Bound=false and the
// caller applies its own fallback policy; the registry never default-allows.
func (s Service) CanCall(ctx context.Context, principal string, target string, selector string) (entities.AccessDecision, error) {
	now := s.now()
	decision := entities.AccessDecision{
		Principal: principal,
		Target:    target,
		Selector:  selector,
		CheckedAt: now,
	}

	binding, err := s.Repo.GetTargetFunctionRole(ctx, target, selector)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnknownBinding) {
			return decision, nil
		}
		return entities.AccessDecision{}, err
	}

	decision.Bound = true
	decision.RoleID = binding.RoleID
	membership, found, err := s.Repo.GetMembership(ctx, binding.RoleID, principal)
	if err != nil {
		return entities.AccessDecision{}, err
	}
	if !found {
		return decision, nil
	}
	decision.Delay = membership.Delay
	decision.Allowed = membership.IsActive(now)
	return decision, nil
}

func (s Service) requireAdmin(caller string) error {
	if strings.TrimSpace(caller) == "" || caller != s.AdminPrincipal {
		return fmt.Errorf("%w: %s", domainerrors.ErrUnauthorized, caller)
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
