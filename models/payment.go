package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentState is the local payment lifecycle state.
type PaymentState string

const (
	PaymentStateNew               PaymentState = "new"
	PaymentStateAuthorization     PaymentState = "authorization"
	PaymentStatePending           PaymentState = "pending"
	PaymentStateCompleted         PaymentState = "completed"
	PaymentStatePartiallyRefunded PaymentState = "partially_refunded"
	PaymentStateRefunded          PaymentState = "refunded"
	PaymentStateVoided            PaymentState = "voided"
)

// GatewayKind selects the Authorize.net payment flow for a payment.
type GatewayKind string

const (
	GatewayKindCard   GatewayKind = "card"
	GatewayKindEcheck GatewayKind = "echeck"
)

// Payment maps one local payment to exactly one remote gateway transaction.
// Refunds accumulate on the same record instead of creating new ones.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Kind            GatewayKind     `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	State           PaymentState    `gorm:"type:varchar(20);not null;default:'new'"`
	RemoteID        string          `gorm:"index"`
	RefundedAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

// RemainingAmount is the amount still refundable on this payment.
func (p *Payment) RemainingAmount() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}
