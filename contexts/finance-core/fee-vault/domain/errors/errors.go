package errors

import "errors"

var (
	ErrUnauthorizedConfig     = errors.New("principal may not configure the fee vault")
	ErrFeeCurrencyNotSet      = errors.New("fee currency is not configured")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientPrepaidFee = errors.New("insufficient prepaid fee balance")
	ErrInsufficientFunds      = errors.New("insufficient token balance")
	ErrInsufficientAllowance  = errors.New("insufficient token allowance")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
