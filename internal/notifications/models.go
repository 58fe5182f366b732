package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what lifecycle change a message announces
type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "booking_confirmed"
	NotificationTypeBookingExpired   NotificationType = "booking_expired"
	NotificationTypePaymentFailed    NotificationType = "payment_failed"
)

// Notification is the message published for downstream delivery workers.
// Amount is in the smallest currency unit.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	BookingID uuid.UUID        `json:"booking_id"`
	EventID   uuid.UUID        `json:"event_id"`
	Quantity  int              `json:"quantity"`
	Amount    int64            `json:"amount"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToJSON serializes the notification for the wire
func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all of a user's notifications to one partition so they
// arrive in order
func (n *Notification) PartitionKey() string {
	return n.UserID.String()
}
