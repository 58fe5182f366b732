package bookings

import "errors"

var (
	// ErrBookingNotFound means no booking exists with the given ID
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotOwner means the booking belongs to a different user
	ErrNotOwner = errors.New("booking does not belong to this user")
	// ErrSeatsUnavailable means the pool held fewer seats than requested
	ErrSeatsUnavailable = errors.New("not enough seats available")
	// ErrEventNotPublished means bookings are not open for this event
	ErrEventNotPublished = errors.New("event is not open for booking")
	// ErrFreeTicketCapExceeded means the user would exceed the per-pool free seat cap
	ErrFreeTicketCapExceeded = errors.New("free ticket limit reached for this pool")
	// ErrGatewayUnavailable means the payment gateway could not create an order.
	// Nothing was written locally and no seats are held when this is returned.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrAlreadyFinalized means the booking already left PENDING
	ErrAlreadyFinalized = errors.New("booking already finalized")
	// ErrCannotCancel means the booking is in a state cancellation does not cover
	ErrCannotCancel = errors.New("booking cannot be cancelled")
)
