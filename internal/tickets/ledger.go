package tickets

import (
	"context"
	"errors"
	"fmt"

	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPoolNotFound means the ticket pool does not exist
	ErrPoolNotFound = errors.New("ticket pool not found")
	// ErrInsufficientSeats means the pool holds fewer seats than requested
	ErrInsufficientSeats = errors.New("not enough seats available")
	// ErrInvariantViolation means a release would push available_seats past
	// total_seats. This is a double-release or data-corruption signal, never
	// a user-facing condition.
	ErrInvariantViolation = errors.New("seat ledger invariant violation")
)

// Ledger is the atomic counter guarding seat inventory. Both operations are
// single conditional UPDATEs, so concurrent callers across replicas can never
// jointly oversell a pool or release a hold twice without detection.
type Ledger interface {
	// Reserve decrements available_seats by quantity only if at least that
	// many remain. Returns ErrInsufficientSeats otherwise.
	Reserve(ctx context.Context, ticketID uuid.UUID, quantity int) error
	// Release increments available_seats by quantity, refusing to exceed
	// total_seats. Returns ErrInvariantViolation when the cap would break.
	Release(ctx context.Context, ticketID uuid.UUID, quantity int) error
}

type gormLedger struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLedger creates a ledger backed by conditional UPDATEs on ticket_pools
func NewLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db, log: logger.GetDefault()}
}

func (l *gormLedger) Reserve(ctx context.Context, ticketID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}

	result := l.db.WithContext(ctx).
		Model(&TicketPool{}).
		Where("id = ? AND available_seats >= ?", ticketID, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("seat reserve failed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing pool from a sold-out one
		exists, err := l.poolExists(ctx, ticketID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		return ErrInsufficientSeats
	}

	return nil
}

func (l *gormLedger) Release(ctx context.Context, ticketID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("release quantity must be positive, got %d", quantity)
	}

	result := l.db.WithContext(ctx).
		Model(&TicketPool{}).
		Where("id = ? AND available_seats + ? <= total_seats", ticketID, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("seat release failed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := l.poolExists(ctx, ticketID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		l.log.LogInvariantViolation(ctx, ticketID.String(), quantity,
			"release would exceed total_seats; possible double release")
		return ErrInvariantViolation
	}

	return nil
}

func (l *gormLedger) poolExists(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&TicketPool{}).
		Where("id = ?", ticketID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("pool lookup failed: %w", err)
	}
	return count > 0, nil
}
