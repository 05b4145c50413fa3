package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"domin/contexts/access-control/access-registry/application"
	httptransport "domin/contexts/access-control/access-registry/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// GrantRoleHandler godoc
// @Summary Grant a role to a principal
// @Description Records a membership with an optional activation delay. Admin only.
// @Tags access-registry
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param role_id path int true "Role id"
// @Success 200 {object} httptransport.GrantRoleResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/access/v1/roles/{role_id}/grant [post]
func (h Handler) GrantRoleHandler(
	ctx context.Context,
	caller string,
	roleID uint64,
	request httptransport.GrantRoleRequest,
) (httptransport.GrantRoleResponse, error) {
	membership, err := h.Service.GrantRole(
		ctx,
		caller,
		roleID,
		request.Principal,
		time.Duration(request.DelaySeconds)*time.Second,
	)
	if err != nil {
		return httptransport.GrantRoleResponse{}, err
	}
	return httptransport.GrantRoleResponse{
		RoleID:       membership.RoleID,
		Principal:    membership.Principal,
		GrantedAt:    membership.GrantedAt,
		DelaySeconds: int64(membership.Delay / time.Second),
		ActiveAt:     membership.ActiveAt(),
	}, nil
}

// LabelRoleHandler godoc
// @Summary Attach a display label to a role
// @Tags access-registry
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param role_id path int true "Role id"
// @Success 200 {object} httptransport.LabelRoleResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/access/v1/roles/{role_id}/label [post]
func (h Handler) LabelRoleHandler(
	ctx context.Context,
	caller string,
	roleID uint64,
	request httptransport.LabelRoleRequest,
) (httptransport.LabelRoleResponse, error) {
	role, err := h.Service.LabelRole(ctx, caller, roleID, request.Label)
	if err != nil {
		return httptransport.LabelRoleResponse{}, err
	}
	return httptransport.LabelRoleResponse{
		RoleID: role.RoleID,
		Label:  role.Label,
	}, nil
}

// SetTargetFunctionRoleHandler godoc
// @Summary Bind selectors on a target to a role
// @Tags access-registry
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param target path string true "Target identifier"
// @Success 200 {object} httptransport.SetTargetFunctionRoleResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/access/v1/targets/{target}/functions [post]
func (h Handler) SetTargetFunctionRoleHandler(
	ctx context.Context,
	caller string,
	target string,
	request httptransport.SetTargetFunctionRoleRequest,
) (httptransport.SetTargetFunctionRoleResponse, error) {
	bindings, err := h.Service.SetTargetFunctionRole(ctx, caller, target, request.Selectors, request.RoleID)
	if err != nil {
		return httptransport.SetTargetFunctionRoleResponse{}, err
	}
	items := make([]httptransport.FunctionBindingDTO, 0, len(bindings))
	for _, binding := range bindings {
		items = append(items, httptransport.FunctionBindingDTO{
			Target:    binding.Target,
			Selector:  binding.Selector,
			RoleID:    binding.RoleID,
			UpdatedAt: binding.UpdatedAt,
		})
	}
	return httptransport.SetTargetFunctionRoleResponse{Bindings: items}, nil
}

// HasRoleHandler godoc
// @Summary Check whether a principal holds an active role
// @Tags access-registry
// @Produce json
// @Param role_id path int true "Role id"
// @Param principal path string true "Principal"
// @Success 200 {object} httptransport.HasRoleResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/access/v1/roles/{role_id}/members/{principal} [get]
func (h Handler) HasRoleHandler(
	ctx context.Context,
	roleID uint64,
	principal string,
) (httptransport.HasRoleResponse, error) {
	active, delay, err := h.Service.HasRole(ctx, roleID, principal)
	if err != nil {
		return httptransport.HasRoleResponse{}, err
	}
	return httptransport.HasRoleResponse{
		RoleID:       roleID,
		Principal:    principal,
		Active:       active,
		DelaySeconds: int64(delay / time.Second),
	}, nil
}

// GetTargetFunctionRoleHandler godoc
// @Summary Resolve the role bound to a target function
// @Tags access-registry
// @Produce json
// @Param target path string true "Target identifier"
// @Param selector path string true "Function selector"
// @Success 200 {object} httptransport.GetTargetFunctionRoleResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/access/v1/targets/{target}/functions/{selector} [get]
func (h Handler) GetTargetFunctionRoleHandler(
	ctx context.Context,
	target string,
	selector string,
) (httptransport.GetTargetFunctionRoleResponse, error) {
	binding, err := h.Service.GetTargetFunctionRole(ctx, target, selector)
	if err != nil {
		return httptransport.GetTargetFunctionRoleResponse{}, err
	}
	return httptransport.GetTargetFunctionRoleResponse{
		Target:   binding.Target,
		Selector: binding.Selector,
		RoleID:   binding.RoleID,
	}, nil
}
