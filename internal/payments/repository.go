package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, intent *PaymentIntent) error
	GetByOrderID(ctx context.Context, orderID string) (*PaymentIntent, error)
	// Finalize moves an intent out of CREATED, recording the gateway payment
	// ID and signature. Returns whether this call applied the change.
	Finalize(ctx context.Context, id uuid.UUID, status IntentStatus, paymentID, signature string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, intent *PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	err := r.db.WithContext(ctx).
		Where("external_order_id = ?", orderID).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchIntent
		}
		return nil, err
	}
	return &intent, nil
}

func (r *repository) Finalize(ctx context.Context, id uuid.UUID, status IntentStatus, paymentID, signature string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&PaymentIntent{}).
		Where("id = ? AND status = ?", id, IntentCreated).
		Updates(map[string]interface{}{
			"status":              status,
			"external_payment_id": paymentID,
			"external_signature":  signature,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
