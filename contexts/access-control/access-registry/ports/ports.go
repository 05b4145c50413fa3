package ports

import (
	"context"
	"time"

	"domin/contexts/access-control/access-registry/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// GrantRoleInput is persisted as one membership row; granting twice for the
// same (role, principal) pair overwrites the previous grant.
type GrantRoleInput struct {
	RoleID    uint64
	Principal string
	Delay     time.Duration
	GrantedAt time.Time
}

// SetTargetFunctionRoleInput replaces the bound role for every listed selector.
type SetTargetFunctionRoleInput struct {
	Target    string
	Selectors []string
	RoleID    uint64
	UpdatedAt time.Time
}

// Repository is the write/read boundary for registry state. Roles are
// auto-created on first grant or label; they are never deleted.
type Repository interface {
	GrantRole(ctx context.Context, input GrantRoleInput) (entities.RoleMembership, error)
	LabelRole(ctx context.Context, roleID uint64, label string, now time.Time) (entities.Role, error)
	SetTargetFunctionRole(ctx context.Context, input SetTargetFunctionRoleInput) ([]entities.FunctionBinding, error)
	GetRole(ctx context.Context, roleID uint64) (entities.Role, error)
	GetMembership(ctx context.Context, roleID uint64, principal string) (entities.RoleMembership, bool, error)
	ListRoleMembers(ctx context.Context, roleID uint64) ([]entities.RoleMembership, error)
	GetTargetFunctionRole(ctx context.Context, target string, selector string) (entities.FunctionBinding, error)
}
