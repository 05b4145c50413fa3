package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ledgererrors "domin/contexts/delegation/delegation-ledger/domain/errors"
	ledgerhttp "domin/contexts/delegation/delegation-ledger/transport/http"
)

func (s *Server) registerDelegationLedgerRoutes() {
	s.mux.HandleFunc("POST /api/delegation/v1/authorizers", s.handleLedgerMintAuthorizer)
	s.mux.HandleFunc("POST /api/delegation/v1/authorizers/{token_id}/operators", s.handleLedgerMintOperator)
	s.mux.HandleFunc("GET /api/delegation/v1/authorizers/{token_id}", s.handleLedgerGetAuthorizer)
	s.mux.HandleFunc("GET /api/delegation/v1/operators/{token_id}", s.handleLedgerGetOperator)
	s.mux.HandleFunc("POST /api/delegation/v1/operators/{token_id}/parent", s.handleLedgerRegisterParent)
	s.mux.HandleFunc("POST /api/delegation/v1/operators/{token_id}/delegate", s.handleLedgerSetDelegate)
	s.mux.HandleFunc("POST /api/delegation/v1/authorizers/{token_id}/verification", s.handleLedgerSetVerified)
	s.mux.HandleFunc("POST /api/delegation/v1/authorizers/{token_id}/transfer", s.handleLedgerTransferAuthorizer)
	s.mux.HandleFunc("POST /api/delegation/v1/operators/{token_id}/transfer", s.handleLedgerTransferOperator)
	s.mux.HandleFunc("POST /api/delegation/v1/bindings/check", s.handleLedgerCheckBinding)
}

func (s *Server) handleLedgerMintAuthorizer(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req ledgerhttp.MintAuthorizerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.MintAuthorizerHandler(r.Context(), r.Header.Get("Idempotency-Key"), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerMintOperator(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	authorizerID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.MintOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.ParentAuthorizerID = authorizerID
	resp, err := s.ledger.Handler.MintOperatorHandler(r.Context(), r.Header.Get("Idempotency-Key"), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerGetAuthorizer(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetAuthorizerHandler(r.Context(), tokenID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerGetOperator(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetOperatorHandler(r.Context(), tokenID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerRegisterParent(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.RegisterParentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.RegisterParentHandler(r.Context(), caller, tokenID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerSetDelegate(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.SetDelegateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.SetDelegateHandler(r.Context(), caller, tokenID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerSetVerified(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.SetVerifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.SetVerifiedHandler(r.Context(), caller, tokenID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLedgerTransferAuthorizer(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.TransferAuthorizerHandler(r.Context(), caller, tokenID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerTransferOperator(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	tokenID, ok := parseTokenID(w, r, "token_id", writeLedgerError)
	if !ok {
		return
	}
	var req ledgerhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.TransferOperatorHandler(r.Context(), caller, tokenID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerCheckBinding(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req ledgerhttp.CheckBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.CheckBindingHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrUnauthorizedMint),
		errors.Is(err, ledgererrors.ErrNotAuthorizerOwner),
		errors.Is(err, ledgererrors.ErrNotOperatorOwner),
		errors.Is(err, ledgererrors.ErrForbiddenRedeem),
		errors.Is(err, ledgererrors.ErrForbiddenRedeemOperatorMismatch):
		writeLedgerError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ledgererrors.ErrUnknownAuthorizer),
		errors.Is(err, ledgererrors.ErrUnknownOperator):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrOperatorSlotTaken),
		errors.Is(err, ledgererrors.ErrIdempotencyConflict):
		writeLedgerError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidOwner),
		errors.Is(err, ledgererrors.ErrInvalidDelegate),
		errors.Is(err, ledgererrors.ErrIdempotencyKeyRequired):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
