package payments

import (
	"time"

	"github.com/google/uuid"
)

// IntentStatus tracks a payment intent's verification outcome
type IntentStatus string

const (
	IntentCreated IntentStatus = "CREATED"
	IntentSuccess IntentStatus = "SUCCESS"
	IntentFailed  IntentStatus = "FAILED"
)

// PaymentIntent links a gateway order to its booking. One intent per booking;
// the unique index makes a second intent for the same booking impossible.
type PaymentIntent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`

	ExternalOrderID   string `json:"external_order_id" gorm:"not null;uniqueIndex"`
	ExternalPaymentID string `json:"external_payment_id,omitempty"`
	ExternalSignature string `json:"-"`

	Status IntentStatus `json:"status" gorm:"type:varchar(20);not null;default:'CREATED'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PaymentIntent model
func (PaymentIntent) TableName() string {
	return "payment_intents"
}

// VerifyPaymentRequest is the callback body posted after gateway checkout.
// BookingID must match the intent the order was opened for.
type VerifyPaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	OrderID   string    `json:"razorpay_order_id" binding:"required"`
	PaymentID string    `json:"razorpay_payment_id" binding:"required"`
	Signature string    `json:"razorpay_signature" binding:"required"`
}

// VerifyPaymentResponse reports the verification outcome
type VerifyPaymentResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
}
