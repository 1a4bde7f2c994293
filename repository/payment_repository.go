package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnoltman65/commerce-authnet/models"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) error
	FindPendingEcheckByRemoteIDs(ctx context.Context, remoteIDs []string) ([]models.Payment, error)
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) Save(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *gormPaymentRepo) FindPendingEcheckByRemoteIDs(ctx context.Context, remoteIDs []string) ([]models.Payment, error) {
	if len(remoteIDs) == 0 {
		return nil, nil
	}
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("kind = ?", models.GatewayKindEcheck).
		Where("state = ?", models.PaymentStatePending).
		Where("remote_id IN ?", remoteIDs).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
