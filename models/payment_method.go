package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardType is the closed set of card brands the gateway accepts.
type CardType string

const (
	CardTypeAmex       CardType = "amex"
	CardTypeDinersClub CardType = "dinersclub"
	CardTypeDiscover   CardType = "discover"
	CardTypeJCB        CardType = "jcb"
	CardTypeMastercard CardType = "mastercard"
	CardTypeVisa       CardType = "visa"
)

// Address is a billing or shipping address embedded on its owning record.
type Address struct {
	FirstName  string `gorm:"type:varchar(100)"`
	LastName   string `gorm:"type:varchar(100)"`
	Company    string `gorm:"type:varchar(100)"`
	Line1      string `gorm:"type:varchar(255)"`
	Line2      string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(2)"`
}

// PaymentMethod stores a tokenized payment instrument. RemoteID is
// polymorphic: a bare payment-profile token for stored cards, a
// "customerProfileId|paymentProfileId" pair for anonymous checkouts, or a
// "dataDescriptor|dataValue" pair for single-use echeck tokens.
type PaymentMethod struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID        uuid.UUID `gorm:"type:uuid;index;not null"`
	RemoteID       string    `gorm:"type:varchar(1024)"`
	CardType       CardType  `gorm:"type:varchar(20)"`
	Last4          string    `gorm:"type:varchar(4)"`
	ExpMonth       int
	ExpYear        int
	BillingAddress Address `gorm:"embedded;embeddedPrefix:billing_"`
	Reusable       bool    `gorm:"not null;default:true"`
	ExpiresAt      time.Time
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
