package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	ledgererrors "domin/contexts/delegation/delegation-ledger/domain/errors"
	engineerrors "domin/contexts/delegation/redemption-engine/domain/errors"
	enginehttp "domin/contexts/delegation/redemption-engine/transport/http"
	vaulterrors "domin/contexts/finance-core/fee-vault/domain/errors"
)

func (s *Server) registerRedemptionEngineRoutes() {
	s.mux.HandleFunc("POST /api/redemption/v1/redeem", s.handleRedeem)
	s.mux.HandleFunc("GET /api/redemption/v1/authorizers/{authorizer_id}/audits", s.handleListAudits)
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEngineError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req enginehttp.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.redemption.Handler.RedeemHandler(r.Context(), caller, req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	authorizerID, ok := parseTokenID(w, r, "authorizer_id", writeEngineError)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeEngineError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = value
	}
	resp, err := s.redemption.Handler.ListAuditsHandler(r.Context(), authorizerID, limit)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// The engine propagates ledger and vault errors unchanged, so the mapping
// here folds all three error taxonomies into one switch.
func writeEngineDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrForbiddenRedeem),
		errors.Is(err, ledgererrors.ErrForbiddenRedeemOperatorMismatch):
		writeEngineError(w, http.StatusForbidden, "forbidden_redeem", err.Error())
	case errors.Is(err, ledgererrors.ErrUnknownAuthorizer),
		errors.Is(err, ledgererrors.ErrUnknownOperator),
		errors.Is(err, engineerrors.ErrUnknownAsset),
		errors.Is(err, engineerrors.ErrUnknownDelegate):
		writeEngineError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, vaulterrors.ErrInsufficientPrepaidFee):
		writeEngineError(w, http.StatusPaymentRequired, "insufficient_prepaid_fee", err.Error())
	case errors.Is(err, engineerrors.ErrInsufficientApproval):
		writeEngineError(w, http.StatusForbidden, "insufficient_approval", err.Error())
	case errors.Is(err, engineerrors.ErrEmptyBatch),
		errors.Is(err, engineerrors.ErrInvalidAsset):
		writeEngineError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeEngineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEngineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
