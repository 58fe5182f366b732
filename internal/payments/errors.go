package payments

import "errors"

var (
	// ErrNoSuchIntent means no payment intent matches the gateway order
	ErrNoSuchIntent = errors.New("no payment intent for this order")
	// ErrSignatureInvalid means the callback signature did not verify
	ErrSignatureInvalid = errors.New("payment signature verification failed")
	// ErrAlreadyFinalized means the intent was already verified or failed
	ErrAlreadyFinalized = errors.New("payment already finalized")
	// ErrReservationExpired means a valid payment arrived after the booking
	// was reclaimed. The charge is refunded; the seats are gone.
	ErrReservationExpired = errors.New("reservation expired before payment completed")
)
