package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints the seat ledger relies on.
// The conditional UPDATEs in the ledger already prevent oversell and
// over-release; these CHECKs are the backstop that turns a bypassing write
// into a hard database error instead of silent corruption.
func MigrateConstraints(db *gorm.DB) error {
	// Postgres has no ADD CONSTRAINT IF NOT EXISTS; drop-then-add keeps the
	// migration idempotent
	err := db.Exec(`
		ALTER TABLE ticket_pools
		DROP CONSTRAINT IF EXISTS chk_available_seats_range;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE ticket_pools
		ADD CONSTRAINT chk_available_seats_range
		CHECK (available_seats >= 0 AND available_seats <= total_seats);
	`).Error
	if err != nil {
		return err
	}

	// One pool per event and ticket type
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_pools_event_type
		ON ticket_pools (event_id, type);
	`).Error
	if err != nil {
		return err
	}

	// The expiry reclaimer scans PENDING bookings by deadline every sweep
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_pending_deadline
		ON bookings (reservation_deadline)
		WHERE status = 'PENDING';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
