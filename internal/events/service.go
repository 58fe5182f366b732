package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketly/internal/shared/constants"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

var ErrNotPublishable = errors.New("event cannot be published in its current state")
var ErrNotOwner = errors.New("event does not belong to this organizer")

// Service interface defines the contract for event business logic
type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*Event, error)
	PublishEvent(ctx context.Context, eventID, organizerID uuid.UUID) (*Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Event, int64, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a new event service instance. The cache is optional;
// a nil cache disables read-side caching.
func NewService(repo Repository, cacheSvc cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func eventCacheKey(id uuid.UUID) string {
	return constants.EventDetailKey(id.String())
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*Event, error) {
	event := &Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		Status:      StatusDraft,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *service) PublishEvent(ctx context.Context, eventID, organizerID uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != organizerID {
		return nil, ErrNotOwner
	}

	if !event.Status.CanPublish() {
		return nil, ErrNotPublishable
	}

	applied, err := s.repo.UpdateStatus(ctx, eventID, StatusDraft, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	if !applied {
		return nil, ErrNotPublishable
	}

	s.invalidate(ctx, eventID)

	event.Status = StatusPublished
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	if s.cache != nil {
		var cached Event
		if err := s.cache.Get(ctx, eventCacheKey(eventID), &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && event.IsPublished() {
		if err := s.cache.Set(ctx, eventCacheKey(eventID), event, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("event cache set failed")
		}
	}

	return event, nil
}

func (s *service) ListPublished(ctx context.Context, limit, offset int) ([]Event, int64, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *service) invalidate(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, eventCacheKey(eventID)); err != nil {
		s.log.WithError(err).Warn("event cache invalidation failed")
	}
}
