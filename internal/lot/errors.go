package lot

import "errors"

var (
	// ErrNotFound is returned when the lot does not exist.
	ErrNotFound = errors.New("lot not found")

	// ErrProductNotFound is returned when the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidLot is returned when lot fields fail validation.
	ErrInvalidLot = errors.New("invalid lot fields")

	// ErrLotHasReservations is returned when deleting a lot that active
	// reservations still reference.
	ErrLotHasReservations = errors.New("lot still has reservations")

	// ErrQuantityBelowCommitted is returned when an administrator tries to
	// shrink a lot's total below the sum of committed reservations.
	ErrQuantityBelowCommitted = errors.New("total quantity below committed reservations")
)
