package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	registryerrors "domin/contexts/access-control/access-registry/domain/errors"
	registryhttp "domin/contexts/access-control/access-registry/transport/http"
)

func (s *Server) registerAccessRegistryRoutes() {
	s.mux.HandleFunc("POST /api/access/v1/roles/{role_id}/grant", s.handleRegistryGrantRole)
	s.mux.HandleFunc("POST /api/access/v1/roles/{role_id}/label", s.handleRegistryLabelRole)
	s.mux.HandleFunc("POST /api/access/v1/targets/{target}/functions", s.handleRegistrySetTargetFunctionRole)
	s.mux.HandleFunc("GET /api/access/v1/roles/{role_id}/members/{principal}", s.handleRegistryHasRole)
	s.mux.HandleFunc("GET /api/access/v1/targets/{target}/functions/{selector}", s.handleRegistryGetTargetFunctionRole)
}

func (s *Server) handleRegistryGrantRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	roleID, ok := parseTokenID(w, r, "role_id", writeRegistryError)
	if !ok {
		return
	}
	var req registryhttp.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.GrantRoleHandler(r.Context(), caller, roleID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistryLabelRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	roleID, ok := parseTokenID(w, r, "role_id", writeRegistryError)
	if !ok {
		return
	}
	var req registryhttp.LabelRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.LabelRoleHandler(r.Context(), caller, roleID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistrySetTargetFunctionRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req registryhttp.SetTargetFunctionRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.SetTargetFunctionRoleHandler(r.Context(), caller, r.PathValue("target"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistryHasRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := parseTokenID(w, r, "role_id", writeRegistryError)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.HasRoleHandler(r.Context(), roleID, r.PathValue("principal"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistryGetTargetFunctionRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetTargetFunctionRoleHandler(r.Context(), r.PathValue("target"), r.PathValue("selector"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrUnauthorized):
		writeRegistryError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, registryerrors.ErrUnknownRole),
		errors.Is(err, registryerrors.ErrUnknownBinding):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidPrincipal),
		errors.Is(err, registryerrors.ErrInvalidTarget),
		errors.Is(err, registryerrors.ErrInvalidSelector),
		errors.Is(err, registryerrors.ErrInvalidDelay),
		errors.Is(err, registryerrors.ErrEmptySelectors):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func resolvePrincipal(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Principal"))
}

func parseTokenID(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	writeError func(http.ResponseWriter, int, string, string),
) (uint64, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}
