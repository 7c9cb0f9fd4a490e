package reservation

import "errors"

// Sentinel errors returned by the allocator and the ledger. Handlers map them
// to transport status codes with errors.Is.
var (
	// ErrNotFound is returned when the referenced lot or reservation does not exist.
	ErrNotFound = errors.New("lot or reservation not found")

	// ErrUnauthorized is returned when the caller does not own the reservation being mutated.
	ErrUnauthorized = errors.New("reservation belongs to another user")

	// ErrInvalidQuantity is returned when the requested quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInsufficientQuantity is returned when the requested quantity exceeds
	// the remaining availability of the lot.
	ErrInsufficientQuantity = errors.New("requested quantity exceeds remaining availability")

	// ErrDuplicateReservation is returned when the user already holds a
	// reservation for the lot. Retryable by the caller after a fresh read.
	ErrDuplicateReservation = errors.New("reservation already exists for this user and lot")

	// ErrCapacityExceeded is returned by the ledger when a mutation would push
	// the reserved sum past the lot total despite passing the allocator's
	// pre-check. It signals a caught race and is retryable after a fresh read.
	ErrCapacityExceeded = errors.New("lot capacity exceeded")

	// ErrLotSuspended is returned when creating a reservation against a suspended lot.
	ErrLotSuspended = errors.New("lot is suspended")

	// ErrDependencyUnavailable is returned when storage, the lock provider or
	// a catalog lookup failed transiently. Safe to retry.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
