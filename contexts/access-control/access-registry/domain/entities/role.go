package entities

import "time"

// Role is a numeric capability bundle. The label is cosmetic and never
// consulted by authorization checks.
type Role struct {
	RoleID    uint64    `json:"role_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleMembership records one principal's grant, effective once the activation
// delay has elapsed.
type RoleMembership struct {
	RoleID    uint64        `json:"role_id"`
	Principal string        `json:"principal"`
	GrantedAt time.Time     `json:"granted_at"`
	Delay     time.Duration `json:"delay"`
}

// ActiveAt reports when the grant becomes effective.
func (m RoleMembership) ActiveAt() time.Time {
	return m.GrantedAt.Add(m.Delay)
}

// IsActive reports whether the grant is effective at the given instant.
func (m RoleMembership) IsActive(now time.Time) bool {
	return !now.Before(m.ActiveAt())
}
