package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketly/internal/shared/config"
	"ticketly/internal/tickets"
	"ticketly/pkg/logger"
	"ticketly/pkg/metrics"

	"github.com/google/uuid"
)

// SeatLedger is the slice of the ticket ledger the orchestrator needs
type SeatLedger interface {
	Reserve(ctx context.Context, ticketID uuid.UUID, quantity int) error
	Release(ctx context.Context, ticketID uuid.UUID, quantity int) error
}

// TicketResolver resolves a pool's price and bookability in one call
type TicketResolver interface {
	ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*tickets.BookingTicket, error)
}

// PaymentOpener is implemented by the payments service. OpenOrder talks to the
// gateway only; CreateIntent records the local intent row linking the gateway
// order back to the booking.
type PaymentOpener interface {
	OpenOrder(ctx context.Context, amount int64, receipt string) (string, error)
	CreateIntent(ctx context.Context, bookingID uuid.UUID, orderID string) error
}

// ArtifactIssuer produces the confirmation artifact for a confirmed booking
type ArtifactIssuer interface {
	Issue(ctx context.Context, bookingID uuid.UUID) (string, error)
}

// Notifier publishes booking lifecycle notifications. Implementations must be
// fire-and-forget; delivery failures never affect booking outcomes.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingExpired(ctx context.Context, booking *Booking)
	PaymentFailed(ctx context.Context, booking *Booking)
}

// Service interface defines the contract for booking operations
type Service interface {
	CreateBooking(ctx context.Context, userID, eventID, ticketID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
	// ReclaimExpired sweeps elapsed PENDING reservations. Returns how many
	// bookings this sweep expired.
	ReclaimExpired(ctx context.Context) (int, error)
	// ConfirmPaid and FailPaid are the payment verifier's entry points into
	// the booking lifecycle. Both report whether this call applied the
	// transition; false means another writer finalized the booking first,
	// and ConfirmPaid also reports the status that writer left behind.
	ConfirmPaid(ctx context.Context, bookingID uuid.UUID) (bool, BookingStatus, error)
	FailPaid(ctx context.Context, bookingID uuid.UUID, reason string) (bool, error)
}

type service struct {
	repo     Repository
	ledger   SeatLedger
	resolver TicketResolver
	payments PaymentOpener
	issuer   ArtifactIssuer
	notifier Notifier
	cfg      config.BookingConfig
	log      *logger.Logger
}

// NewService wires the booking orchestrator. The issuer and notifier are
// optional; a nil value disables that side effect.
func NewService(
	repo Repository,
	ledger SeatLedger,
	resolver TicketResolver,
	payments PaymentOpener,
	issuer ArtifactIssuer,
	notifier Notifier,
	cfg config.BookingConfig,
) Service {
	return &service{
		repo:     repo,
		ledger:   ledger,
		resolver: resolver,
		payments: payments,
		issuer:   issuer,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

// CreateBooking runs the booking saga. Seats are reserved first; every
// failure after that point releases them exactly once before returning.
func (s *service) CreateBooking(ctx context.Context, userID, eventID, ticketID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error) {
	resolved, err := s.resolver.ResolveForBooking(ctx, eventID, ticketID)
	if err != nil {
		return nil, err
	}

	if !resolved.EventPublished {
		return nil, ErrEventNotPublished
	}

	// Free pools are capped per user before any seats are touched
	if resolved.IsFree() {
		held, err := s.repo.SumConfirmedFreeSeats(ctx, userID, ticketID)
		if err != nil {
			return nil, fmt.Errorf("failed to check free ticket cap: %w", err)
		}
		if held+req.Quantity > s.cfg.FreeTicketCap {
			return nil, ErrFreeTicketCapExceeded
		}
	}

	if err := s.ledger.Reserve(ctx, ticketID, req.Quantity); err != nil {
		if errors.Is(err, tickets.ErrInsufficientSeats) {
			metrics.SeatRejections.Inc()
			return nil, ErrSeatsUnavailable
		}
		return nil, err
	}

	amount := resolved.UnitPrice * int64(req.Quantity)

	if resolved.IsFree() {
		return s.confirmFreeBooking(ctx, userID, resolved, req.Quantity)
	}
	return s.openPaidBooking(ctx, userID, resolved, req.Quantity, amount)
}

func (s *service) confirmFreeBooking(ctx context.Context, userID uuid.UUID, resolved *tickets.BookingTicket, quantity int) (*CreateBookingResponse, error) {
	booking := &Booking{
		ID:       uuid.New(),
		UserID:   userID,
		EventID:  resolved.EventID,
		TicketID: resolved.TicketID,
		Quantity: quantity,
		Amount:   0,
		Status:   StatusConfirmed,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.releaseSeats(ctx, resolved.TicketID, quantity, "free booking write failed")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.EventID.String(), userID.String(), string(booking.Status))
	metrics.BookingsCreated.WithLabelValues("free").Inc()
	metrics.BookingsFinalized.WithLabelValues("confirmed").Inc()

	issued := s.issueArtifact(ctx, booking)
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, booking)
	}

	return &CreateBookingResponse{
		BookingID:       booking.ID,
		Status:          booking.Status,
		Amount:          0,
		PaymentRequired: false,
		ArtifactPending: !issued,
	}, nil
}

func (s *service) openPaidBooking(ctx context.Context, userID uuid.UUID, resolved *tickets.BookingTicket, quantity int, amount int64) (*CreateBookingResponse, error) {
	// The booking ID doubles as the gateway receipt, so it is generated
	// before either side writes anything
	bookingID := uuid.New()

	orderID, err := s.payments.OpenOrder(ctx, amount, bookingID.String())
	if err != nil {
		s.releaseSeats(ctx, resolved.TicketID, quantity, "gateway order failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	deadline := time.Now().Add(s.cfg.ReservationWindow)
	booking := &Booking{
		ID:                  bookingID,
		UserID:              userID,
		EventID:             resolved.EventID,
		TicketID:            resolved.TicketID,
		Quantity:            quantity,
		Amount:              amount,
		PaymentRequired:     true,
		Status:              StatusPending,
		ReservationDeadline: &deadline,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.releaseSeats(ctx, resolved.TicketID, quantity, "pending booking write failed")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := s.payments.CreateIntent(ctx, bookingID, orderID); err != nil {
		applied, terr := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusFailed)
		if terr != nil {
			s.log.ErrorWithContext(ctx, "failed to fail booking after intent error", terr,
				map[string]interface{}{"booking_id": bookingID})
		}
		if applied {
			s.releaseSeats(ctx, resolved.TicketID, quantity, "payment intent write failed")
			metrics.BookingsFinalized.WithLabelValues("failed").Inc()
		}
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	s.log.LogBookingCreated(ctx, bookingID.String(), booking.EventID.String(), userID.String(), string(booking.Status))
	metrics.BookingsCreated.WithLabelValues("paid").Inc()

	return &CreateBookingResponse{
		BookingID:           bookingID,
		Status:              StatusPending,
		Amount:              amount,
		PaymentRequired:     true,
		OrderID:             orderID,
		ReservationDeadline: &deadline,
	}, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// CancelBooking cancels a PENDING booking and returns its seats. Confirmed
// bookings stay confirmed; refund flows are handled out of band.
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrNotOwner
	}

	switch booking.Status {
	case StatusPending:
		applied, err := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusCancelled)
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		if !applied {
			// Verifier or reclaimer won the race
			return ErrAlreadyFinalized
		}
		s.releaseSeats(ctx, booking.TicketID, booking.Quantity, "booking cancelled")
		metrics.BookingsFinalized.WithLabelValues("cancelled").Inc()
		return nil
	case StatusConfirmed:
		return ErrCannotCancel
	default:
		return ErrAlreadyFinalized
	}
}

// ReclaimExpired expires elapsed PENDING reservations in one batch. Each
// booking is handled independently; a failure on one never aborts the rest.
func (s *service) ReclaimExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpiredPending(ctx, time.Now(), s.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired bookings: %w", err)
	}

	var reclaimed, failed int
	for i := range expired {
		booking := &expired[i]

		applied, err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusExpired)
		if err != nil {
			failed++
			s.log.ErrorWithContext(ctx, "expiry transition failed", err,
				map[string]interface{}{"booking_id": booking.ID})
			continue
		}
		if !applied {
			// Payment verifier confirmed it between the scan and now
			continue
		}

		s.releaseSeats(ctx, booking.TicketID, booking.Quantity, "reservation expired")
		reclaimed++
		metrics.BookingsFinalized.WithLabelValues("expired").Inc()

		if s.notifier != nil {
			s.notifier.BookingExpired(ctx, booking)
		}
	}

	s.log.LogExpirySweep(ctx, len(expired), reclaimed, failed)
	return reclaimed, nil
}

// ConfirmPaid moves a PENDING booking to CONFIRMED after a verified payment.
// Seats stay decremented; the hold becomes permanent. The deadline is
// rechecked here: a payment landing after the window expires the booking even
// when the reclaimer has not swept it yet.
func (s *service) ConfirmPaid(ctx context.Context, bookingID uuid.UUID) (bool, BookingStatus, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return false, "", err
	}
	if booking.Status.IsTerminal() {
		return false, booking.Status, nil
	}

	if booking.ReservationDeadline != nil && time.Now().After(*booking.ReservationDeadline) {
		return false, s.expireLate(ctx, booking), nil
	}

	applied, err := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusConfirmed)
	if err != nil {
		return false, booking.Status, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if !applied {
		// Lost the race since the read above; report who won
		current, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return false, "", err
		}
		return false, current.Status, nil
	}

	booking.Status = StatusConfirmed
	booking.ReservationDeadline = nil
	metrics.BookingsFinalized.WithLabelValues("confirmed").Inc()

	s.issueArtifact(ctx, booking)
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, booking)
	}
	return true, StatusConfirmed, nil
}

// expireLate applies the reclaimer's transition on the verifier's behalf when
// a payment lands after the deadline. Returns the booking's resulting status.
func (s *service) expireLate(ctx context.Context, booking *Booking) BookingStatus {
	applied, err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusExpired)
	if err != nil {
		s.log.ErrorWithContext(ctx, "late expiry transition failed", err,
			map[string]interface{}{"booking_id": booking.ID})
		return booking.Status
	}
	if !applied {
		current, err := s.repo.GetByID(ctx, booking.ID)
		if err != nil {
			return booking.Status
		}
		return current.Status
	}

	booking.Status = StatusExpired
	s.releaseSeats(ctx, booking.TicketID, booking.Quantity, "reservation expired")
	metrics.BookingsFinalized.WithLabelValues("expired").Inc()

	if s.notifier != nil {
		s.notifier.BookingExpired(ctx, booking)
	}
	return StatusExpired
}

// FailPaid moves a PENDING booking to FAILED and returns its seats
func (s *service) FailPaid(ctx context.Context, bookingID uuid.UUID, reason string) (bool, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}

	applied, err := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to fail booking: %w", err)
	}
	if !applied {
		return false, nil
	}

	booking.Status = StatusFailed
	s.releaseSeats(ctx, booking.TicketID, booking.Quantity, reason)
	metrics.BookingsFinalized.WithLabelValues("failed").Inc()

	if s.notifier != nil {
		s.notifier.PaymentFailed(ctx, booking)
	}
	return true, nil
}

// releaseSeats is the shared compensation path. Release errors are logged
// loudly but never propagated; the caller's own failure already describes
// what went wrong for the user.
func (s *service) releaseSeats(ctx context.Context, ticketID uuid.UUID, quantity int, reason string) {
	if err := s.ledger.Release(ctx, ticketID, quantity); err != nil {
		s.log.ErrorWithContext(ctx, "compensating seat release failed", err,
			map[string]interface{}{"ticket_id": ticketID, "quantity": quantity, "reason": reason})
		return
	}
	s.log.LogSeatsReleased(ctx, ticketID.String(), quantity, reason)
}

// issueArtifact requests and stores the confirmation artifact. A false return
// means the booking stands with an empty artifact_ref and the issuance needs
// a manual retry; seats are never released for a delivery failure.
func (s *service) issueArtifact(ctx context.Context, booking *Booking) bool {
	if s.issuer == nil {
		return true
	}
	ref, err := s.issuer.Issue(ctx, booking.ID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "confirmation artifact issue failed, retry manually", err,
			map[string]interface{}{"booking_id": booking.ID})
		return false
	}
	if err := s.repo.SetArtifactRef(ctx, booking.ID, ref); err != nil {
		s.log.ErrorWithContext(ctx, "confirmation artifact persist failed, retry manually", err,
			map[string]interface{}{"booking_id": booking.ID})
		return false
	}
	booking.ArtifactRef = ref
	return true
}
