package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/tickets"
	"ticketly/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Ticketly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payment_intents",
		"bookings",
		"ticket_pools",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds users, events and ticket pools
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	eventIDs, err := s.SeedEvents(userIDs["organizer"])
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedTicketPools(eventIDs); err != nil {
		return fmt.Errorf("failed to seed ticket pools: %w", err)
	}

	// Flush Redis so cached metadata from previous runs cannot leak in
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one organizer and two attendees
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	usersData := []struct {
		key   string
		name  string
		email string
		role  users.Role
	}{
		{"organizer", "Asha Rao", "organizer@ticketly.io", users.RoleOrganizer},
		{"user1", "Dev Patel", "dev@example.com", users.RoleUser},
		{"user2", "Priya Nair", "priya@example.com", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Email:     userData.email,
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvents creates sample events, most of them already published
func (s *Seeder) SeedEvents(organizerID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  Seeding events...")

	var eventIDs []uuid.UUID

	eventsData := []struct {
		title       string
		description string
		venue       string
		daysFromNow int
		status      events.EventStatus
	}{
		{
			title:       "Tech Conference 2026",
			description: "Annual technology conference featuring industry leaders.",
			venue:       "Tech Hub Convention Center",
			daysFromNow: 30,
			status:      events.StatusPublished,
		},
		{
			title:       "Classical Music Evening",
			description: "An evening of classical music by renowned musicians.",
			venue:       "Grand Opera House",
			daysFromNow: 45,
			status:      events.StatusPublished,
		},
		{
			title:       "Startup Pitch Night",
			description: "Promising startups pitch their ideas to investors.",
			venue:       "Innovation Center",
			daysFromNow: 15,
			status:      events.StatusPublished,
		},
		{
			title:       "Food & Wine Festival",
			description: "A festival celebrating local cuisine and fine wines.",
			venue:       "Central Park Pavilion",
			daysFromNow: 60,
			status:      events.StatusDraft,
		},
	}

	for _, eventData := range eventsData {
		event := events.Event{
			ID:          uuid.New(),
			OrganizerID: organizerID,
			Title:       eventData.title,
			Description: eventData.description,
			Venue:       eventData.venue,
			StartsAt:    time.Now().AddDate(0, 0, eventData.daysFromNow),
			Status:      eventData.status,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", event.Title, err)
		}

		eventIDs = append(eventIDs, event.ID)
		fmt.Printf("    Created event: %s (%s)\n", event.Title, event.Status)
	}

	return eventIDs, nil
}

// SeedTicketPools creates pools per event. Prices are in paise.
func (s *Seeder) SeedTicketPools(eventIDs []uuid.UUID) error {
	fmt.Println("  Seeding ticket pools...")

	poolsData := []struct {
		poolType  tickets.PoolType
		unitPrice int64
		seats     int
	}{
		{tickets.TypeFree, 0, 50},
		{tickets.TypeGeneral, 150000, 200},
		{tickets.TypePlatinum, 500000, 40},
	}

	for _, eventID := range eventIDs {
		for _, poolData := range poolsData {
			pool := tickets.TicketPool{
				ID:             uuid.New(),
				EventID:        eventID,
				Type:           poolData.poolType,
				UnitPrice:      poolData.unitPrice,
				TotalSeats:     poolData.seats,
				AvailableSeats: poolData.seats,
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&pool).Error; err != nil {
				return fmt.Errorf("failed to create %s pool: %w", poolData.poolType, err)
			}
		}
		fmt.Printf("    Created %d pools for event %s\n", len(poolsData), eventID)
	}

	return nil
}
