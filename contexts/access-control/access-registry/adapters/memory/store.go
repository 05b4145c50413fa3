package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"domin/contexts/access-control/access-registry/domain/entities"
	domainerrors "domin/contexts/access-control/access-registry/domain/errors"
	"domin/contexts/access-control/access-registry/ports"
)

// Store is an in-memory adapter implementing the repository port. It is
// intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	roles    map[uint64]entities.Role
	members  map[uint64]map[string]entities.RoleMembership
	bindings map[string]map[string]entities.FunctionBinding
}

func NewStore() *Store {
	return &Store{
		roles:    make(map[uint64]entities.Role),
		members:  make(map[uint64]map[string]entities.RoleMembership),
		bindings: make(map[string]map[string]entities.FunctionBinding),
	}
}

func (s *Store) GrantRole(_ context.Context, input ports.GrantRoleInput) (entities.RoleMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureRole(input.RoleID, input.GrantedAt)
	if s.members[input.RoleID] == nil {
		s.members[input.RoleID] = make(map[string]entities.RoleMembership)
	}
	membership := entities.RoleMembership{
		RoleID:    input.RoleID,
		Principal: input.Principal,
		GrantedAt: input.GrantedAt.UTC(),
		Delay:     input.Delay,
	}
	s.members[input.RoleID][input.Principal] = membership
	return membership, nil
}

func (s *Store) LabelRole(_ context.Context, roleID uint64, label string, now time.Time) (entities.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := s.ensureRole(roleID, now)
	role.Label = label
	s.roles[roleID] = role
	return role, nil
}

func (s *Store) SetTargetFunctionRole(_ context.Context, input ports.SetTargetFunctionRoleInput) ([]entities.FunctionBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bindings[input.Target] == nil {
		s.bindings[input.Target] = make(map[string]entities.FunctionBinding)
	}
	items := make([]entities.FunctionBinding, 0, len(input.Selectors))
	for _, selector := range input.Selectors {
		binding := entities.FunctionBinding{
			Target:    input.Target,
			Selector:  selector,
			RoleID:    input.RoleID,
			UpdatedAt: input.UpdatedAt.UTC(),
		}
		s.bindings[input.Target][selector] = binding
		items = append(items, binding)
	}
	return items, nil
}

func (s *Store) GetRole(_ context.Context, roleID uint64) (entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[roleID]
	if !ok {
		return entities.Role{}, domainerrors.ErrUnknownRole
	}
	return role, nil
}

func (s *Store) GetMembership(_ context.Context, roleID uint64, principal string) (entities.RoleMembership, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	membership, ok := s.members[roleID][principal]
	return membership, ok, nil
}

func (s *Store) ListRoleMembers(_ context.Context, roleID uint64) ([]entities.RoleMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.RoleMembership, 0, len(s.members[roleID]))
	for _, membership := range s.members[roleID] {
		items = append(items, membership)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Principal < items[j].Principal
	})
	return items, nil
}

func (s *Store) GetTargetFunctionRole(_ context.Context, target string, selector string) (entities.FunctionBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	binding, ok := s.bindings[target][selector]
	if !ok {
		return entities.FunctionBinding{}, domainerrors.ErrUnknownBinding
	}
	return binding, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) ensureRole(roleID uint64, now time.Time) entities.Role {
	role, ok := s.roles[roleID]
	if !ok {
		role = entities.Role{
			RoleID:    roleID,
			CreatedAt: now.UTC(),
		}
		s.roles[roleID] = role
	}
	return role
}
