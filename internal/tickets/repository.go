package tickets

import (
	"context"
	"errors"

	"ticketly/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateType       = errors.New("a pool of this type already exists for the event")
	ErrTicketEventMismatch = errors.New("ticket does not belong to this event")
)

type Repository interface {
	CreatePool(ctx context.Context, pool *TicketPool) error
	GetByID(ctx context.Context, id uuid.UUID) (*TicketPool, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketPool, error)
	// ResolveForBooking loads price and published flag in one round trip
	ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*BookingTicket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePool(ctx context.Context, pool *TicketPool) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TicketPool{}).
		Where("event_id = ? AND type = ?", pool.EventID, pool.Type).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateType
	}

	// The unique index on (event_id, type) closes the check-then-create race
	return r.db.WithContext(ctx).Create(pool).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TicketPool, error) {
	var pool TicketPool
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketPool, error) {
	var pools []TicketPool
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("unit_price ASC").
		Find(&pools).Error
	return pools, err
}

func (r *repository) ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*BookingTicket, error) {
	var row struct {
		ID          uuid.UUID
		EventID     uuid.UUID
		Type        PoolType
		UnitPrice   int64
		EventStatus events.EventStatus
	}

	err := r.db.WithContext(ctx).
		Table("ticket_pools").
		Select("ticket_pools.id, ticket_pools.event_id, ticket_pools.type, ticket_pools.unit_price, events.status AS event_status").
		Joins("JOIN events ON events.id = ticket_pools.event_id").
		Where("ticket_pools.id = ?", ticketID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}

	if row.EventID != eventID {
		return nil, ErrTicketEventMismatch
	}

	return &BookingTicket{
		TicketID:       row.ID,
		EventID:        row.EventID,
		Type:           row.Type,
		UnitPrice:      row.UnitPrice,
		EventPublished: row.EventStatus.IsBookable(),
	}, nil
}
