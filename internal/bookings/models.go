package bookings

import (
	"time"

	"ticketly/internal/events"
	"ticketly/internal/tickets"
	"ticketly/internal/users"

	"github.com/google/uuid"
)

// Booking is one user's hold or purchase of seats in a single ticket pool.
// Amount is denominated in the smallest currency unit (paise).
type Booking struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	TicketID uuid.UUID `json:"ticket_id" gorm:"type:uuid;not null;index"`

	Quantity int   `json:"quantity" gorm:"not null;check:quantity > 0"`
	Amount   int64 `json:"amount" gorm:"not null;check:amount >= 0"`

	// PaymentRequired distinguishes the paid flow (PENDING until verified)
	// from the free flow (CONFIRMED immediately)
	PaymentRequired bool          `json:"payment_required" gorm:"not null;default:false"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`

	// ReservationDeadline is set only while a paid booking is PENDING
	ReservationDeadline *time.Time `json:"reservation_deadline,omitempty"`

	// ArtifactRef holds the confirmation QR artifact once issued
	ArtifactRef string `json:"artifact_ref,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	User   *users.User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event  *events.Event       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Ticket *tickets.TicketPool `json:"ticket,omitempty" gorm:"foreignKey:TicketID"`
}

// TableName specifies the table name for Booking model
func (Booking) TableName() string {
	return "bookings"
}

// CreateBookingRequest is the body for booking seats on a pool
type CreateBookingRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=10"`
}

// BookingResponse is the API shape for a single booking
type BookingResponse struct {
	ID                  uuid.UUID     `json:"id"`
	EventID             uuid.UUID     `json:"event_id"`
	TicketID            uuid.UUID     `json:"ticket_id"`
	Quantity            int           `json:"quantity"`
	Amount              int64         `json:"amount"`
	PaymentRequired     bool          `json:"payment_required"`
	Status              BookingStatus `json:"status"`
	ReservationDeadline *time.Time    `json:"reservation_deadline,omitempty"`
	ArtifactRef         string        `json:"artifact_ref,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	CancelledAt         *time.Time    `json:"cancelled_at,omitempty"`
}

// CreateBookingResponse is returned from the booking endpoint. OrderID is set
// only for paid bookings; the client hands it to the gateway checkout.
// ArtifactPending is set when a confirmed booking's artifact could not be
// issued; the booking stands and the artifact is retried out of band.
type CreateBookingResponse struct {
	BookingID           uuid.UUID     `json:"booking_id"`
	Status              BookingStatus `json:"status"`
	Amount              int64         `json:"amount"`
	PaymentRequired     bool          `json:"payment_required"`
	OrderID             string        `json:"order_id,omitempty"`
	ReservationDeadline *time.Time    `json:"reservation_deadline,omitempty"`
	ArtifactPending     bool          `json:"artifact_pending,omitempty"`
}

// ToResponse converts a Booking to its API shape
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:                  b.ID,
		EventID:             b.EventID,
		TicketID:            b.TicketID,
		Quantity:            b.Quantity,
		Amount:              b.Amount,
		PaymentRequired:     b.PaymentRequired,
		Status:              b.Status,
		ReservationDeadline: b.ReservationDeadline,
		ArtifactRef:         b.ArtifactRef,
		CreatedAt:           b.CreatedAt,
		CancelledAt:         b.CancelledAt,
	}
}
