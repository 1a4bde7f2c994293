package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnoltman65/commerce-authnet/models"
)

// ValidationError means the caller supplied malformed input. Not
// retryable; the input must be fixed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// PaymentDeclinedError is a generic business decline from the gateway,
// surfaced to the end user.
type PaymentDeclinedError struct {
	Code string
	Text string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Text)
}

// HardDeclineError is a decline the gateway marks non-retryable. The same
// request must not be resubmitted.
type HardDeclineError struct {
	Code string
	Text string
}

func (e *HardDeclineError) Error() string {
	return fmt.Sprintf("hard decline (%s): %s", e.Code, e.Text)
}

// PaymentMethodInvalidError means the stored token was revoked by the
// gateway. The local payment method has already been deleted; the user
// must re-enter payment details.
type PaymentMethodInvalidError struct {
	PaymentMethodID uuid.UUID
}

func (e *PaymentMethodInvalidError) Error() string {
	return fmt.Sprintf("payment method %s is no longer valid", e.PaymentMethodID)
}

// ProfileNotFoundError means the stored remote customer reference was
// stale. The reference has been cleared, so retrying the whole flow once
// is safe and will create a fresh profile.
type ProfileNotFoundError struct {
	CustomerProfileID string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("customer profile %s not found on gateway", e.CustomerProfileID)
}

// RefundExceedsAmountError means a refund would push the cumulative
// refunded amount past the original payment amount.
type RefundExceedsAmountError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *RefundExceedsAmountError) Error() string {
	return fmt.Sprintf("refund of %s exceeds refundable amount %s",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// InvalidStateError is a workflow error: an operation was invoked on a
// payment whose state does not allow it. The payment is left unchanged.
type InvalidStateError struct {
	State   models.PaymentState
	Allowed []models.PaymentState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("payment in state %q, allowed: %v", e.State, e.Allowed)
}

// UnsupportedCardTypeError means the gateway reported a card brand outside
// the supported set. Treated as a hard, non-retryable decline.
type UnsupportedCardTypeError struct {
	CardType string
}

func (e *UnsupportedCardTypeError) Error() string {
	return fmt.Sprintf("unsupported credit card type %q", e.CardType)
}

// assertPaymentState guards a mutating operation against its allowed
// source states.
func assertPaymentState(payment *models.Payment, allowed ...models.PaymentState) error {
	for _, state := range allowed {
		if payment.State == state {
			return nil
		}
	}
	return &InvalidStateError{State: payment.State, Allowed: allowed}
}
