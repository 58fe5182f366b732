package tickets

import (
	"time"

	"ticketly/internal/events"

	"github.com/google/uuid"
)

type PoolType string

const (
	TypeFree     PoolType = "FREE"
	TypeGeneral  PoolType = "GENERAL"
	TypePlatinum PoolType = "PLATINUM"
)

// IsValid checks if the pool type is valid
func (t PoolType) IsValid() bool {
	switch t {
	case TypeFree, TypeGeneral, TypePlatinum:
		return true
	}
	return false
}

// IsFree reports whether this pool type must carry a zero price
func (t PoolType) IsFree() bool {
	return t == TypeFree
}

// TicketPool is the per-event, per-type seat inventory. AvailableSeats is the
// hot counter guarded by the ledger: nothing outside Reserve/Release may
// write it.
type TicketPool struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Type           PoolType  `gorm:"type:varchar(20);not null" json:"type"`
	UnitPrice      int64     `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	TotalSeats     int       `gorm:"not null;check:total_seats > 0" json:"total_seats"`
	AvailableSeats int       `gorm:"not null" json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Event *events.Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (TicketPool) TableName() string {
	return "ticket_pools"
}

// BookingTicket is the resolved view the booking orchestrator needs: price,
// kind, and whether the owning event accepts bookings.
type BookingTicket struct {
	TicketID       uuid.UUID
	EventID        uuid.UUID
	Type           PoolType
	UnitPrice      int64
	EventPublished bool
}

// IsFree reports whether bookings against this ticket cost nothing
func (b *BookingTicket) IsFree() bool {
	return b.UnitPrice == 0
}

type CreatePoolRequest struct {
	Type       PoolType `json:"type" binding:"required,oneof=FREE GENERAL PLATINUM"`
	UnitPrice  int64    `json:"unit_price" binding:"min=0"`
	TotalSeats int      `json:"total_seats" binding:"required,min=1,max=100000"`
}

type PoolResponse struct {
	ID             string   `json:"id"`
	EventID        string   `json:"event_id"`
	Type           PoolType `json:"type"`
	UnitPrice      int64    `json:"unit_price"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
}

// ToResponse converts a TicketPool to its API representation
func (p *TicketPool) ToResponse() PoolResponse {
	return PoolResponse{
		ID:             p.ID.String(),
		EventID:        p.EventID.String(),
		Type:           p.Type,
		UnitPrice:      p.UnitPrice,
		TotalSeats:     p.TotalSeats,
		AvailableSeats: p.AvailableSeats,
	}
}
