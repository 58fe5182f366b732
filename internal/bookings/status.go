package bookings

// BookingStatus tracks a booking through its lifecycle. PENDING is the only
// non-terminal state; every transition out of it is applied conditionally so
// exactly one of the competing writers (verifier, reclaimer, cancel) wins.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusFailed    BookingStatus = "FAILED"
	StatusExpired   BookingStatus = "EXPIRED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition may leave this status
func (s BookingStatus) IsTerminal() bool {
	return s != StatusPending
}

// IsValid checks whether s is a known lifecycle status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}
