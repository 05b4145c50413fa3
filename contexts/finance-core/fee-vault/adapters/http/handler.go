package httpadapter

import (
	"context"
	"log/slog"

	"domin/contexts/finance-core/fee-vault/application"
	"domin/contexts/finance-core/fee-vault/domain/entities"
	httptransport "domin/contexts/finance-core/fee-vault/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// SetFeeCurrencyHandler godoc
// @Summary Configure the fee currency and treasury
// @Tags fee-vault
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Success 200 {object} httptransport.SetFeeCurrencyResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/vault/v1/fee-currency [post]
func (h Handler) SetFeeCurrencyHandler(
	ctx context.Context,
	caller string,
	request httptransport.SetFeeCurrencyRequest,
) (httptransport.SetFeeCurrencyResponse, error) {
	config, err := h.Service.SetFeeCurrency(ctx, caller, request.Currency, request.Treasury)
	if err != nil {
		return httptransport.SetFeeCurrencyResponse{}, err
	}
	return httptransport.SetFeeCurrencyResponse{
		Currency:  config.Currency,
		Treasury:  config.Treasury,
		UpdatedAt: config.UpdatedAt,
	}, nil
}

// DepositHandler godoc
// @Summary Deposit prepaid redemption fees for an authorizer
// @Description Pulls funds from the calling principal into the treasury and credits the authorizer's prepaid balance.
// @Tags fee-vault
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Param Idempotency-Key header string true "Idempotency key"
// @Param authorizer_id path int true "Authorizer token id"
// @Success 200 {object} httptransport.FeeBalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Router /api/vault/v1/authorizers/{authorizer_id}/deposit [post]
func (h Handler) DepositHandler(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	authorizerID uint64,
	request httptransport.DepositRequest,
) (httptransport.FeeBalanceResponse, error) {
	balance, err := h.Service.DepositPrepaidFee(ctx, idempotencyKey, caller, authorizerID, request.Amount)
	if err != nil {
		return httptransport.FeeBalanceResponse{}, err
	}
	return balanceResponse(balance), nil
}

// GetBalanceHandler godoc
// @Summary Read the prepaid fee balance for an authorizer
// @Tags fee-vault
// @Produce json
// @Param authorizer_id path int true "Authorizer token id"
// @Success 200 {object} httptransport.FeeBalanceResponse
// @Router /api/vault/v1/authorizers/{authorizer_id}/balance [get]
func (h Handler) GetBalanceHandler(ctx context.Context, authorizerID uint64) (httptransport.FeeBalanceResponse, error) {
	balance, err := h.Service.GetFeeBalance(ctx, authorizerID)
	if err != nil {
		return httptransport.FeeBalanceResponse{}, err
	}
	return balanceResponse(balance), nil
}

// GetRewardHandler godoc
// @Summary Read the cumulative authorizer reward
// @Tags fee-vault
// @Produce json
// @Param authorizer_id path int true "Authorizer token id"
// @Success 200 {object} httptransport.RewardResponse
// @Router /api/vault/v1/authorizers/{authorizer_id}/reward [get]
func (h Handler) GetRewardHandler(ctx context.Context, authorizerID uint64) (httptransport.RewardResponse, error) {
	accrual, err := h.Service.GetAuthorizerReward(ctx, authorizerID)
	if err != nil {
		return httptransport.RewardResponse{}, err
	}
	return httptransport.RewardResponse{
		AuthorizerID: accrual.AuthorizerID,
		Accrued:      accrual.Accrued,
		UpdatedAt:    accrual.UpdatedAt,
	}, nil
}

func balanceResponse(balance entities.FeeBalance) httptransport.FeeBalanceResponse {
	return httptransport.FeeBalanceResponse{
		AuthorizerID: balance.AuthorizerID,
		Balance:      balance.Balance,
		UpdatedAt:    balance.UpdatedAt,
	}
}
