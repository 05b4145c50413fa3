package httpadapter

import (
	"context"
	"log/slog"

	"domin/contexts/delegation/delegation-ledger/application"
	"domin/contexts/delegation/delegation-ledger/domain/entities"
	httptransport "domin/contexts/delegation/delegation-ledger/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// MintAuthorizerHandler godoc
// @Summary Mint an authorizer token
// @Description Allocates the next authorizer id for the given owner. The caller must hold the role bound to the authorizer mint selector.
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param Idempotency-Key header string true "Idempotency key"
// @Success 200 {object} httptransport.AuthorizerTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/authorizers [post]
func (h Handler) MintAuthorizerHandler(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	request httptransport.MintAuthorizerRequest,
) (httptransport.AuthorizerTokenResponse, error) {
	token, err := h.Service.MintAuthorizer(ctx, idempotencyKey, caller, request.Owner)
	if err != nil {
		return httptransport.AuthorizerTokenResponse{}, err
	}
	return authorizerResponse(token, ""), nil
}

// MintOperatorHandler godoc
// @Summary Mint the operator token for an authorizer
// @Description Creates the single operator token bound to the authorizer. Only one live operator may exist per authorizer.
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param Idempotency-Key header string true "Idempotency key"
// @Success 200 {object} httptransport.OperatorTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/authorizers/{parent_authorizer_id}/operators [post]
func (h Handler) MintOperatorHandler(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	request httptransport.MintOperatorRequest,
) (httptransport.OperatorTokenResponse, error) {
	token, err := h.Service.MintOperator(ctx, idempotencyKey, caller, request.ParentAuthorizerID, request.Owner)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	return operatorResponse(token, ""), nil
}

// GetAuthorizerHandler godoc
// @Summary Fetch an authorizer token
// @Tags delegation-ledger
// @Produce json
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.AuthorizerTokenResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/authorizers/{token_id} [get]
func (h Handler) GetAuthorizerHandler(ctx context.Context, tokenID uint64) (httptransport.AuthorizerTokenResponse, error) {
	token, err := h.Service.GetAuthorizer(ctx, tokenID)
	if err != nil {
		return httptransport.AuthorizerTokenResponse{}, err
	}
	uri, err := h.Service.AuthorizerURI(ctx, tokenID)
	if err != nil {
		return httptransport.AuthorizerTokenResponse{}, err
	}
	return authorizerResponse(token, uri), nil
}

// GetOperatorHandler godoc
// @Summary Fetch an operator token
// @Tags delegation-ledger
// @Produce json
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.OperatorTokenResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/operators/{token_id} [get]
func (h Handler) GetOperatorHandler(ctx context.Context, tokenID uint64) (httptransport.OperatorTokenResponse, error) {
	token, err := h.Service.GetOperator(ctx, tokenID)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	uri, err := h.Service.OperatorURI(ctx, tokenID)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	return operatorResponse(token, uri), nil
}

// RegisterParentHandler godoc
// @Summary Re-register an operator under a new authorizer
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param token_id path int true "Operator token id"
// @Success 200 {object} httptransport.OperatorTokenResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/operators/{token_id}/parent [post]
func (h Handler) RegisterParentHandler(
	ctx context.Context,
	caller string,
	tokenID uint64,
	request httptransport.RegisterParentRequest,
) (httptransport.OperatorTokenResponse, error) {
	token, err := h.Service.RegisterParent(ctx, caller, tokenID, request.NewAuthorizerID)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	return operatorResponse(token, ""), nil
}

// SetDelegateHandler godoc
// @Summary Bind the executable delegate for an operator
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param token_id path int true "Operator token id"
// @Success 200 {object} httptransport.OperatorTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/operators/{token_id}/delegate [post]
func (h Handler) SetDelegateHandler(
	ctx context.Context,
	caller string,
	tokenID uint64,
	request httptransport.SetDelegateRequest,
) (httptransport.OperatorTokenResponse, error) {
	token, err := h.Service.SetDelegate(ctx, caller, tokenID, request.Delegate)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	return operatorResponse(token, ""), nil
}

// SetVerifiedHandler godoc
// @Summary Record the authorizer owner's attestation for a delegate
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param token_id path int true "Authorizer token id"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/authorizers/{token_id}/verification [post]
func (h Handler) SetVerifiedHandler(
	ctx context.Context,
	caller string,
	tokenID uint64,
	request httptransport.SetVerifiedRequest,
) error {
	return h.Service.SetVerified(ctx, caller, tokenID, request.Delegate, request.Verified)
}

// TransferAuthorizerHandler godoc
// @Summary Transfer an authorizer token
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param token_id path int true "Authorizer token id"
// @Success 200 {object} httptransport.AuthorizerTokenResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/authorizers/{token_id}/transfer [post]
func (h Handler) TransferAuthorizerHandler(
	ctx context.Context,
	caller string,
	tokenID uint64,
	request httptransport.TransferRequest,
) (httptransport.AuthorizerTokenResponse, error) {
	token, err := h.Service.TransferAuthorizer(ctx, caller, tokenID, request.NewOwner)
	if err != nil {
		return httptransport.AuthorizerTokenResponse{}, err
	}
	return authorizerResponse(token, ""), nil
}

// TransferOperatorHandler godoc
// @Summary Transfer an operator token
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param token_id path int true "Operator token id"
// @Success 200 {object} httptransport.OperatorTokenResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/operators/{token_id}/transfer [post]
func (h Handler) TransferOperatorHandler(
	ctx context.Context,
	caller string,
	tokenID uint64,
	request httptransport.TransferRequest,
) (httptransport.OperatorTokenResponse, error) {
	token, err := h.Service.TransferOperator(ctx, caller, tokenID, request.NewOwner)
	if err != nil {
		return httptransport.OperatorTokenResponse{}, err
	}
	return operatorResponse(token, ""), nil
}

// CheckBindingHandler godoc
// @Summary Validate an authorizer/operator pair for redemption
// @Description Confirms caller ownership, parent binding, and delegate verification state without side effects.
// @Tags delegation-ledger
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Success 200 {object} httptransport.CheckBindingResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/delegation/v1/bindings/check [post]
func (h Handler) CheckBindingHandler(
	ctx context.Context,
	caller string,
	request httptransport.CheckBindingRequest,
) (httptransport.CheckBindingResponse, error) {
	binding, err := h.Service.CheckBinding(ctx, caller, request.AuthorizerID, request.OperatorID)
	if err != nil {
		return httptransport.CheckBindingResponse{}, err
	}
	return httptransport.CheckBindingResponse{
		AuthorizerID: binding.AuthorizerID,
		OperatorID:   binding.OperatorID,
		Delegate:     binding.DelegateRef,
		Verified:     binding.Verified,
	}, nil
}

func authorizerResponse(token entities.AuthorizerToken, uri string) httptransport.AuthorizerTokenResponse {
	return httptransport.AuthorizerTokenResponse{
		TokenID:  token.TokenID,
		Owner:    token.Owner,
		MintedAt: token.MintedAt,
		URI:      uri,
	}
}

func operatorResponse(token entities.OperatorToken, uri string) httptransport.OperatorTokenResponse {
	return httptransport.OperatorTokenResponse{
		TokenID:            token.TokenID,
		Owner:              token.Owner,
		ParentAuthorizerID: token.ParentAuthorizerID,
		Delegate:           token.DelegateRef(),
		MintedAt:           token.MintedAt,
		UpdatedAt:          token.UpdatedAt,
		URI:                uri,
	}
}
