package notifications

import (
	"context"
	"time"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// Service publishes booking lifecycle notifications. Publishing happens on a
// detached goroutine; a slow or dead broker never blocks a booking outcome.
// A nil producer turns the whole service into a no-op.
type Service struct {
	producer Producer
	log      *logger.Logger
}

func NewService(producer Producer) *Service {
	return &Service{
		producer: producer,
		log:      logger.GetDefault(),
	}
}

// BookingConfirmed announces a confirmed booking
func (s *Service) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	s.publish(NotificationTypeBookingConfirmed, booking)
}

// BookingExpired announces a reclaimed reservation
func (s *Service) BookingExpired(ctx context.Context, booking *bookings.Booking) {
	s.publish(NotificationTypeBookingExpired, booking)
}

// PaymentFailed announces a failed payment
func (s *Service) PaymentFailed(ctx context.Context, booking *bookings.Booking) {
	s.publish(NotificationTypePaymentFailed, booking)
}

func (s *Service) publish(notificationType NotificationType, booking *bookings.Booking) {
	if s.producer == nil {
		return
	}

	notification := &Notification{
		ID:        uuid.New(),
		Type:      notificationType,
		UserID:    booking.UserID,
		BookingID: booking.ID,
		EventID:   booking.EventID,
		Quantity:  booking.Quantity,
		Amount:    booking.Amount,
		CreatedAt: time.Now(),
	}

	go func() {
		if err := s.producer.Publish(notification); err != nil {
			s.log.WithError(err).Warn("notification publish failed",
				"type", string(notificationType),
				"booking_id", booking.ID.String())
		}
	}()
}

// Close shuts down the underlying producer if one is attached
func (s *Service) Close() error {
	if s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
