package service

import "errors"

var (
	ErrOrderNotPersisted  = errors.New("order could not be saved")
	ErrSessionUnavailable = errors.New("cart session storage unavailable")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrIllegalTransition  = errors.New("illegal transition of order status")
	ErrMissingSession     = errors.New("missing session id")
)
