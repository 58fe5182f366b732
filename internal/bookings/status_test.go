package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())

	for _, status := range []BookingStatus{StatusConfirmed, StatusFailed, StatusExpired, StatusCancelled} {
		assert.True(t, status.IsTerminal(), "%s should be terminal", status)
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, status := range []BookingStatus{StatusPending, StatusConfirmed, StatusFailed, StatusExpired, StatusCancelled} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, BookingStatus("UNKNOWN").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}
