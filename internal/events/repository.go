package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("event not found")

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Event, int64, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to EventStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListPublished(ctx context.Context, limit, offset int) ([]Event, int64, error) {
	var evts []Event
	var totalCount int64

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("status = ?", StatusPublished)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("starts_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&evts).Error

	return evts, totalCount, err
}

func (r *repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	var evts []Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&evts).Error
	return evts, err
}

// UpdateStatus transitions an event's status only if it still holds the
// expected current status. Returns false when the precondition did not match.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to EventStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
