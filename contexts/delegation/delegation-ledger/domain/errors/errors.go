package errors

import "errors"

var (
	ErrUnauthorizedMint                = errors.New("principal lacks the mint role")
	ErrUnknownAuthorizer               = errors.New("unknown authorizer token")
	ErrUnknownOperator                 = errors.New("unknown operator token")
	ErrNotAuthorizerOwner              = errors.New("caller does not own the authorizer token")
	ErrNotOperatorOwner                = errors.New("caller does not own the operator token")
	ErrOperatorSlotTaken               = errors.New("authorizer already has a bound operator")
	ErrForbiddenRedeem                 = errors.New("caller is not the authorizer token owner")
	ErrForbiddenRedeemOperatorMismatch = errors.New("operator token is not bound to the authorizer")
	ErrInvalidOwner                    = errors.New("invalid owner principal")
	ErrInvalidDelegate                 = errors.New("invalid delegate reference")
	ErrIdempotencyKeyRequired          = errors.New("idempotency key is required")
	ErrIdempotencyConflict             = errors.New("idempotency key conflict")
)
