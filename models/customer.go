package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the payment-method owner. AuthnetCustomerID is the durable
// remote customer profile id this service manages; anonymous customers
// never get one.
type Customer struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string         `gorm:"type:varchar(255)"`
	Anonymous         bool           `gorm:"not null;default:false"`
	AuthnetCustomerID string         `gorm:"type:varchar(64);index"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}
