package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrEventFree             = errors.New("event does not require payment")
	ErrAlreadyPaid           = errors.New("already paid for this event")
	ErrPriceNotConfigured    = errors.New("event price is not set for this category")
	ErrDuplicateRegistration = errors.New("registration already exists for this event and user")
	ErrPaymentNotConfirmed   = errors.New("payment could not be verified")
)

// Coupon rejection reasons. A rejected coupon never blocks payment at the
// undiscounted price; the caller simply resubmits without a code.
const (
	CouponInvalid         = "invalid_coupon"
	CouponNotYetActive    = "not_yet_active"
	CouponExpired         = "expired"
	CouponLimitReached    = "limit_reached"
	CouponAlreadyUsed     = "already_used"
	CouponInvalidDiscount = "invalid_discount"
)

// CouponError is a user-correctable coupon rejection.
type CouponError struct {
	Reason  string
	Message string
}

func (e *CouponError) Error() string { return e.Message }

func NewCouponError(reason, message string) *CouponError {
	return &CouponError{Reason: reason, Message: message}
}

// GatewayError wraps an upstream payment-gateway failure. Retryable by the
// caller; the registration store is never mutated before the gateway call
// succeeds.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("payment gateway %s failed", e.Op)
}

func (e *GatewayError) Unwrap() error { return e.Err }
