package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the booking record store. Status changes go through
// TransitionStatus only, which applies a conditional single-row UPDATE so a
// booking leaves PENDING exactly once no matter how many writers race.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error)
	// TransitionStatus moves id from one status to another. The boolean
	// reports whether this call applied the change; false with a nil error
	// means another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) (bool, error)
	SetArtifactRef(ctx context.Context, id uuid.UUID, ref string) error
	// ListExpiredPending returns PENDING bookings whose deadline has elapsed
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	// SumConfirmedFreeSeats totals free seats a user holds in one pool
	SumConfirmedFreeSeats(ctx context.Context, userID, ticketID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Ticket").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error) {
	var bookings []Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Event").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	switch to {
	case StatusCancelled:
		updates["cancelled_at"] = time.Now()
	case StatusConfirmed:
		// The deadline no longer applies once payment lands
		updates["reservation_deadline"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) SetArtifactRef(ctx context.Context, id uuid.UUID, ref string) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		UpdateColumn("artifact_ref", ref).Error
}

func (r *repository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND reservation_deadline IS NOT NULL AND reservation_deadline <= ?", StatusPending, now).
		Order("reservation_deadline ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) SumConfirmedFreeSeats(ctx context.Context, userID, ticketID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ? AND ticket_id = ? AND status = ?", userID, ticketID, StatusConfirmed).
		Scan(&total).Error
	return int(total), err
}
