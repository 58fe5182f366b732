package payments

import (
	"context"
	"errors"
	"fmt"

	"ticketly/internal/bookings"
	"ticketly/internal/shared/config"
	"ticketly/pkg/logger"
	"ticketly/pkg/metrics"

	"github.com/google/uuid"
)

// BookingFinalizer is the slice of the booking service the verifier drives
type BookingFinalizer interface {
	ConfirmPaid(ctx context.Context, bookingID uuid.UUID) (bool, bookings.BookingStatus, error)
	FailPaid(ctx context.Context, bookingID uuid.UUID, reason string) (bool, error)
}

// Service opens gateway orders for the booking orchestrator and verifies the
// callbacks that come back from checkout.
type Service interface {
	OpenOrder(ctx context.Context, amount int64, receipt string) (string, error)
	CreateIntent(ctx context.Context, bookingID uuid.UUID, orderID string) error
	Verify(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error)
	// BindFinalizer closes the wiring loop with the booking service. Must be
	// called before Verify; the orchestrator depends on this service and this
	// service depends on the orchestrator.
	BindFinalizer(f BookingFinalizer)
}

type service struct {
	repo      Repository
	gateway   Gateway
	finalizer BookingFinalizer
	secret    string
	log       *logger.Logger
}

func NewService(repo Repository, gateway Gateway, cfg config.RazorpayConfig) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		secret:  cfg.KeySecret,
		log:     logger.GetDefault(),
	}
}

func (s *service) BindFinalizer(f BookingFinalizer) {
	s.finalizer = f
}

// OpenOrder registers the charge with the gateway. No local state is written
// here; a failure leaves nothing to clean up.
func (s *service) OpenOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	return s.gateway.CreateOrder(ctx, amount, receipt)
}

func (s *service) CreateIntent(ctx context.Context, bookingID uuid.UUID, orderID string) error {
	intent := &PaymentIntent{
		ID:              uuid.New(),
		BookingID:       bookingID,
		ExternalOrderID: orderID,
		Status:          IntentCreated,
	}
	return s.repo.Create(ctx, intent)
}

// Verify resolves a checkout callback to exactly one of four outcomes:
// confirmed, rejected signature, already finalized (duplicate or late
// delivery of any kind), or a valid payment that arrived after the
// reservation was reclaimed (refunded in full). Only the first delivery of a
// valid callback confirms; replays reject with ErrAlreadyFinalized however
// many times they arrive.
func (s *service) Verify(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	intent, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, ErrNoSuchIntent) {
			metrics.PaymentVerifications.WithLabelValues("unknown_order").Inc()
		}
		return nil, err
	}

	// The callback names both sides of the link; a booking that does not match
	// the order's intent is rejected before any state is read further.
	if intent.BookingID != req.BookingID {
		metrics.PaymentVerifications.WithLabelValues("unknown_order").Inc()
		return nil, ErrNoSuchIntent
	}

	// Finalized intents accept no further callbacks, duplicates included
	if intent.Status != IntentCreated {
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyFinalized
	}

	if !VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.secret) {
		return nil, s.rejectSignature(ctx, intent, req)
	}

	applied, current, err := s.finalizer.ConfirmPaid(ctx, intent.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	if applied {
		if _, err := s.repo.Finalize(ctx, intent.ID, IntentSuccess, req.PaymentID, req.Signature); err != nil {
			s.log.ErrorWithContext(ctx, "intent finalize failed after confirm", err,
				map[string]interface{}{"booking_id": intent.BookingID, "order_id": req.OrderID})
		}
		s.log.LogPaymentVerified(ctx, intent.BookingID.String(), req.OrderID, "confirmed")
		metrics.PaymentVerifications.WithLabelValues("success").Inc()
		return &VerifyPaymentResponse{
			BookingID: intent.BookingID,
			Status:    string(bookings.StatusConfirmed),
		}, nil
	}

	if current == bookings.StatusConfirmed {
		// A concurrent delivery of the same callback won. Converge the intent
		// on its result, then reject this delivery as the duplicate it is.
		if _, err := s.repo.Finalize(ctx, intent.ID, IntentSuccess, req.PaymentID, req.Signature); err != nil {
			s.log.WithError(err).Warn("intent finalize failed on duplicate verify")
		}
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyFinalized
	}

	// Valid payment, but the reclaimer got the booking first. The money must
	// go back; the seats are already resold.
	return nil, s.refundLatePayment(ctx, intent, req)
}

func (s *service) rejectSignature(ctx context.Context, intent *PaymentIntent, req VerifyPaymentRequest) error {
	applied, err := s.repo.Finalize(ctx, intent.ID, IntentFailed, req.PaymentID, req.Signature)
	if err != nil {
		return fmt.Errorf("failed to record signature rejection: %w", err)
	}
	if applied {
		if _, err := s.finalizer.FailPaid(ctx, intent.BookingID, "payment signature invalid"); err != nil {
			s.log.ErrorWithContext(ctx, "failed to fail booking after signature rejection", err,
				map[string]interface{}{"booking_id": intent.BookingID, "order_id": req.OrderID})
		}
	}

	s.log.LogPaymentVerified(ctx, intent.BookingID.String(), req.OrderID, "signature_invalid")
	metrics.PaymentVerifications.WithLabelValues("invalid_signature").Inc()
	return ErrSignatureInvalid
}

func (s *service) refundLatePayment(ctx context.Context, intent *PaymentIntent, req VerifyPaymentRequest) error {
	if err := s.gateway.Refund(ctx, req.PaymentID); err != nil {
		// The charge stands until a manual retry; this must be loud
		s.log.ErrorWithContext(ctx, "refund failed for late payment", err,
			map[string]interface{}{
				"booking_id": intent.BookingID,
				"order_id":   req.OrderID,
				"payment_id": req.PaymentID,
			})
	}

	if _, err := s.repo.Finalize(ctx, intent.ID, IntentFailed, req.PaymentID, req.Signature); err != nil {
		s.log.WithError(err).Warn("intent finalize failed on late payment")
	}

	s.log.LogPaymentVerified(ctx, intent.BookingID.String(), req.OrderID, "late_refunded")
	metrics.PaymentVerifications.WithLabelValues("late_refund").Inc()
	return ErrReservationExpired
}
