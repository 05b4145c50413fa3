package httpadapter

import (
	"context"
	"log/slog"

	"domin/contexts/delegation/redemption-engine/application"
	"domin/contexts/delegation/redemption-engine/domain/entities"
	httptransport "domin/contexts/delegation/redemption-engine/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

// RedeemHandler godoc
// @Summary Execute a redemption batch
// @Description Validates the authorizer/operator binding, charges the flat batch fee, runs the bound delegate over every asset, and returns the audit records.
// @Tags redemption-engine
// @Accept json
// @Produce json
// @Param X-Principal header string true "Calling principal"
// @Success 200 {object} httptransport.RedeemResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/redemption/v1/redeem [post]
func (h Handler) RedeemHandler(
	ctx context.Context,
	caller string,
	request httptransport.RedeemRequest,
) (httptransport.RedeemResponse, error) {
	requests := make([]entities.RedemptionRequest, 0, len(request.Requests))
	for _, item := range request.Requests {
		requests = append(requests, entities.RedemptionRequest{
			RedemptionID: item.RedemptionID,
			AssetRef:     item.AssetRef,
			AssetID:      item.AssetID,
			Memo:         item.Memo,
		})
	}
	records, err := h.Service.Redeem(ctx, caller, request.AuthorizerID, request.OperatorID, requests)
	if err != nil {
		return httptransport.RedeemResponse{}, err
	}
	response := httptransport.RedeemResponse{Records: make([]httptransport.AuditRecordDTO, 0, len(records))}
	for _, record := range records {
		response.Records = append(response.Records, auditDTO(record))
	}
	return response, nil
}

// ListAuditsHandler godoc
// @Summary List recent audit records for an authorizer
// @Tags redemption-engine
// @Produce json
// @Param authorizer_id path int true "Authorizer token id"
// @Success 200 {object} httptransport.ListAuditsResponse
// @Router /api/redemption/v1/authorizers/{authorizer_id}/audits [get]
func (h Handler) ListAuditsHandler(ctx context.Context, authorizerID uint64, limit int) (httptransport.ListAuditsResponse, error) {
	records, err := h.Service.ListAudits(ctx, authorizerID, limit)
	if err != nil {
		return httptransport.ListAuditsResponse{}, err
	}
	response := httptransport.ListAuditsResponse{Records: make([]httptransport.AuditRecordDTO, 0, len(records))}
	for _, record := range records {
		response.Records = append(response.Records, auditDTO(record))
	}
	return response, nil
}

func auditDTO(record entities.AuditRecord) httptransport.AuditRecordDTO {
	return httptransport.AuditRecordDTO{
		AuditID:      record.AuditID,
		RedemptionID: record.RedemptionID,
		AuthorizerID: record.AuthorizerID,
		OperatorID:   record.OperatorID,
		Delegate:     record.DelegateRef,
		AssetRef:     record.AssetRef,
		AssetID:      record.AssetID,
		AssetOwner:   record.AssetOwner,
		Memo:         record.Memo,
		RedeemedAt:   record.RedeemedAt,
	}
}
