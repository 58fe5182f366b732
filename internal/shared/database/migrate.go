package database

import (
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/payments"
	"ticketly/internal/tickets"
	"ticketly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&tickets.TicketPool{},
		&bookings.Booking{},
		&payments.PaymentIntent{},
	)
}
