package httptransport

import "time"

type GrantRoleRequest struct {
	Principal    string `json:"principal"`
	DelaySeconds int64  `json:"delay_seconds,omitempty"`
}

type GrantRoleResponse struct {
	RoleID       uint64    `json:"role_id"`
	Principal    string    `json:"principal"`
	GrantedAt    time.Time `json:"granted_at"`
	DelaySeconds int64     `json:"delay_seconds"`
	ActiveAt     time.Time `json:"active_at"`
}

type LabelRoleRequest struct {
	Label string `json:"label"`
}

type LabelRoleResponse struct {
	RoleID uint64 `json:"role_id"`
	Label  string `json:"label"`
}

type SetTargetFunctionRoleRequest struct {
	Selectors []string `json:"selectors"`
	RoleID    uint64   `json:"role_id"`
}

type FunctionBindingDTO struct {
	Target    string    `json:"target"`
	Selector  string    `json:"selector"`
	RoleID    uint64    `json:"role_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SetTargetFunctionRoleResponse struct {
	Bindings []FunctionBindingDTO `json:"bindings"`
}

type HasRoleResponse struct {
	RoleID       uint64 `json:"role_id"`
	Principal    string `json:"principal"`
	Active       bool   `json:"active"`
	DelaySeconds int64  `json:"delay_seconds"`
}

type GetTargetFunctionRoleResponse struct {
	Target   string `json:"target"`
	Selector string `json:"selector"`
	RoleID   uint64 `json:"role_id"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
