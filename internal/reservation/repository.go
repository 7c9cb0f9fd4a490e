package reservation

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/model"
)

// Repository is the lot ledger: the authoritative store of each lot's total
// quantity and its reservation set. The mutation primitives are called by the
// allocator only, inside the per-lot lock, and re-check the capacity and
// uniqueness invariants at write time as defense in depth against races.
type Repository interface {
	// Remaining computes total_quantity minus the sum of reserved quantities
	// on the lot. Reservations owned by excludingUserID are left out of the
	// sum when it is non-empty; this is the ceiling for an owner updating
	// their own reservation. Returns ErrNotFound when the lot does not exist.
	Remaining(ctx context.Context, lotID, excludingUserID string) (int, error)

	// CommittedQuantity sums all reserved quantities on the lot. Used by lot
	// administration to guard shrink and delete operations.
	CommittedQuantity(ctx context.Context, lotID string) (int, error)

	// ReservationFor returns the reservation held by userID on lotID, or nil.
	ReservationFor(ctx context.Context, lotID, userID string) (*model.Reservation, error)

	// FindByID returns the reservation, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.Reservation, error)

	ListForUser(ctx context.Context, userID string) ([]model.Reservation, error)
	ListForLot(ctx context.Context, lotID string) ([]model.Reservation, error)

	// ApplyCreate inserts the reservation. Fails with ErrCapacityExceeded or
	// ErrDuplicateReservation rather than violating an invariant.
	ApplyCreate(ctx context.Context, res *model.Reservation) error

	// ApplyUpdate changes the quantity of an existing reservation in place.
	// Row identity and ownership never change. Fails with ErrCapacityExceeded
	// when the new quantity would not fit, ErrNotFound when the row is gone.
	ApplyUpdate(ctx context.Context, id string, quantity int) error

	// ApplyDelete removes the reservation. ErrNotFound when the row is gone.
	ApplyDelete(ctx context.Context, id string) error
}

// LotSource supplies lot records to the allocator. The allocator never writes
// lot metadata; lot administration lives elsewhere.
type LotSource interface {
	FindByID(ctx context.Context, id string) (*model.Lot, error)
}
