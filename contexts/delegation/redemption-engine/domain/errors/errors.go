package errors

import "errors"

var (
	ErrEmptyBatch           = errors.New("redemption batch is empty")
	ErrUnknownAsset         = errors.New("unknown asset")
	ErrNotAssetOwner        = errors.New("caller does not own the asset")
	ErrInsufficientApproval = errors.New("delegate lacks approval for the asset")
	ErrUnknownDelegate      = errors.New("unknown delegate reference")
	ErrInvalidAsset         = errors.New("invalid asset reference")
)
