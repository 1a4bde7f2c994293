package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is owned by the host order system. This service only reads it to
// build gateway transaction requests.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string          `gorm:"uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerIP     string          `gorm:"type:varchar(45)"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment       *Shipment       `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// InvoiceNumber is the human order number when assigned, the internal id
// otherwise.
func (o *Order) InvoiceNumber() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID.String()
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Label     string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// Shipment carries the shipping address used for the gateway shipTo block.
type Shipment struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ShippingAddress Address   `gorm:"embedded;embeddedPrefix:shipping_"`
}
