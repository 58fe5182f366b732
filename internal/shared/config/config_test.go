package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())

	assert.Equal(t, 5*time.Minute, cfg.Booking.ReservationWindow)
	assert.Equal(t, 60*time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, 100, cfg.Booking.SweepBatchSize)
	assert.Equal(t, 5, cfg.Booking.FreeTicketCap)

	assert.Contains(t, cfg.Database.DSN, "host=localhost")
	assert.Contains(t, cfg.Database.DSN, "dbname=ticketly_db")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_RESERVATION_WINDOW", "2m")
	t.Setenv("BOOKING_FREE_TICKET_CAP", "3")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, 2*time.Minute, cfg.Booking.ReservationWindow)
	assert.Equal(t, 3, cfg.Booking.FreeTicketCap)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestDurationEnvFallback(t *testing.T) {
	t.Setenv("BOOKING_SWEEP_INTERVAL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 60*time.Second, cfg.Booking.SweepInterval)
}
