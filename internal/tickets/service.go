package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/shared/constants"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotOwner          = errors.New("event does not belong to this organizer")
	ErrEventPublished    = errors.New("cannot create pools after the event is published")
	ErrPriceTypeConflict = errors.New("unit price must be zero for FREE pools and positive otherwise")
)

// EventReader is the slice of the events service the pool manager needs
type EventReader interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error)
}

// Service interface defines the contract for ticket pool management
type Service interface {
	CreatePool(ctx context.Context, organizerID, eventID uuid.UUID, req CreatePoolRequest) (*TicketPool, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketPool, error)
	ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*BookingTicket, error)
}

type service struct {
	repo     Repository
	evts     EventReader
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a new ticket pool service. The cache is optional.
func NewService(repo Repository, evts EventReader, cacheSvc cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		evts:     evts,
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func resolveCacheKey(eventID, ticketID uuid.UUID) string {
	return constants.TicketResolveKey(eventID.String(), ticketID.String())
}

func (s *service) CreatePool(ctx context.Context, organizerID, eventID uuid.UUID, req CreatePoolRequest) (*TicketPool, error) {
	event, err := s.evts.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != organizerID {
		return nil, ErrNotOwner
	}

	// Pools are fixed before publishing; totals are immutable once bookings
	// can reference them.
	if event.IsPublished() {
		return nil, ErrEventPublished
	}

	if req.Type.IsFree() != (req.UnitPrice == 0) {
		return nil, ErrPriceTypeConflict
	}

	pool := &TicketPool{
		EventID:        eventID,
		Type:           req.Type,
		UnitPrice:      req.UnitPrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
	}

	if err := s.repo.CreatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to create ticket pool: %w", err)
	}

	return pool, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketPool, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// ResolveForBooking resolves price and published flag for the orchestrator.
// Only the immutable parts (price, type, event link) are cached; the
// published flag flips at most once, so a short TTL keeps staleness bounded
// without touching the hot path for every booking.
func (s *service) ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*BookingTicket, error) {
	if s.cache != nil {
		var cached BookingTicket
		if err := s.cache.Get(ctx, resolveCacheKey(eventID, ticketID), &cached); err == nil {
			return &cached, nil
		}
	}

	resolved, err := s.repo.ResolveForBooking(ctx, eventID, ticketID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && resolved.EventPublished {
		if err := s.cache.Set(ctx, resolveCacheKey(eventID, ticketID), resolved, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("resolve cache set failed")
		}
	}

	return resolved, nil
}
