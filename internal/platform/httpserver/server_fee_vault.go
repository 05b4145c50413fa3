package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	vaulterrors "domin/contexts/finance-core/fee-vault/domain/errors"
	vaulthttp "domin/contexts/finance-core/fee-vault/transport/http"
)

func (s *Server) registerFeeVaultRoutes() {
	s.mux.HandleFunc("POST /api/vault/v1/fee-currency", s.handleVaultSetFeeCurrency)
	s.mux.HandleFunc("POST /api/vault/v1/authorizers/{authorizer_id}/deposit", s.handleVaultDeposit)
	s.mux.HandleFunc("GET /api/vault/v1/authorizers/{authorizer_id}/balance", s.handleVaultGetBalance)
	s.mux.HandleFunc("GET /api/vault/v1/authorizers/{authorizer_id}/reward", s.handleVaultGetReward)
}

func (s *Server) handleVaultSetFeeCurrency(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req vaulthttp.SetFeeCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.vault.Handler.SetFeeCurrencyHandler(r.Context(), caller, req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVaultDeposit(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	authorizerID, ok := parseTokenID(w, r, "authorizer_id", writeVaultError)
	if !ok {
		return
	}
	var req vaulthttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.vault.Handler.DepositHandler(r.Context(), r.Header.Get("Idempotency-Key"), caller, authorizerID, req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVaultGetBalance(w http.ResponseWriter, r *http.Request) {
	authorizerID, ok := parseTokenID(w, r, "authorizer_id", writeVaultError)
	if !ok {
		return
	}
	resp, err := s.vault.Handler.GetBalanceHandler(r.Context(), authorizerID)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVaultGetReward(w http.ResponseWriter, r *http.Request) {
	authorizerID, ok := parseTokenID(w, r, "authorizer_id", writeVaultError)
	if !ok {
		return
	}
	resp, err := s.vault.Handler.GetRewardHandler(r.Context(), authorizerID)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVaultDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vaulterrors.ErrUnauthorizedConfig):
		writeVaultError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, vaulterrors.ErrInsufficientPrepaidFee),
		errors.Is(err, vaulterrors.ErrInsufficientFunds),
		errors.Is(err, vaulterrors.ErrInsufficientAllowance):
		writeVaultError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, vaulterrors.ErrIdempotencyConflict):
		writeVaultError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, vaulterrors.ErrFeeCurrencyNotSet),
		errors.Is(err, vaulterrors.ErrInvalidAmount),
		errors.Is(err, vaulterrors.ErrIdempotencyKeyRequired):
		writeVaultError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVaultError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVaultError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, vaulthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
