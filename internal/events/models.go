package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizerID uuid.UUID   `json:"organizer_id" gorm:"type:uuid;index;not null"`
	Title       string      `json:"title" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	StartsAt    time.Time   `json:"starts_at" gorm:"not null"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// IsPublished reports whether the event is open for booking
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"required,min=3,max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
}

type EventResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Venue       string      `json:"venue"`
	StartsAt    time.Time   `json:"starts_at"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToResponse converts an Event to its API representation
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
