package reservation

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation/dto"
)

// UseCase is the reservation allocator: the single authority deciding whether
// a create, update or delete against a lot is accepted. Every decision runs
// as an atomic check-then-write unit under a per-lot lock; concurrent
// conflicting writers lose and receive a retryable error.
type UseCase interface {
	Create(ctx context.Context, input *dto.CreateReservationInput) (*model.Reservation, error)
	Update(ctx context.Context, input *dto.UpdateReservationInput) (*model.Reservation, error)
	Delete(ctx context.Context, input *dto.DeleteReservationInput) error
	ListForUser(ctx context.Context, userID string) ([]model.Reservation, error)

	// LotAvailability returns the advisory availability figure for display.
	// It may be served from cache and is always re-validated before a write.
	LotAvailability(ctx context.Context, lotID string) (*dto.LotAvailability, error)

	// ReleaseAllForUser deletes every reservation of a user. This is the
	// administrative channel used only by the account-removal flow; it
	// returns the number of reservations released.
	ReleaseAllForUser(ctx context.Context, userID string) (int, error)
}
