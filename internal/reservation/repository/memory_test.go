package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
)

func seedLot(r *MemoryRepository, id string, total int) {
	r.AddLot(model.Lot{
		BaseModel:     model.BaseModel{ID: id},
		ProductID:     "product-1",
		UnitOfMeasure: "L",
		TotalQuantity: total,
		UnitPrice:     1.2,
	})
}

func mustReserve(t *testing.T, r *MemoryRepository, id, lotID, userID string, qty int) {
	t.Helper()
	err := r.ApplyCreate(context.Background(), &model.Reservation{
		BaseModel: model.BaseModel{ID: id},
		LotID:     lotID,
		UserID:    userID,
		Quantity:  qty,
	})
	require.NoError(t, err)
}

func TestMemoryRemaining(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 10)
	ctx := context.Background()

	remaining, err := r.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 10, remaining)

	mustReserve(t, r, "r1", "lot-1", "alice", 4)
	mustReserve(t, r, "r2", "lot-1", "bob", 3)

	remaining, err = r.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 3, remaining)

	// Reads do not consume capacity.
	again, err := r.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, remaining, again)

	// Excluding a user returns that user's quantity to the pool.
	remaining, err = r.Remaining(ctx, "lot-1", "alice")
	require.NoError(t, err)
	require.Equal(t, 7, remaining)

	_, err = r.Remaining(ctx, "missing", "")
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestMemoryApplyCreate_EnforcesInvariants(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 5)
	ctx := context.Background()

	mustReserve(t, r, "r1", "lot-1", "alice", 3)

	err := r.ApplyCreate(ctx, &model.Reservation{
		BaseModel: model.BaseModel{ID: "r2"},
		LotID:     "lot-1", UserID: "alice", Quantity: 1,
	})
	require.ErrorIs(t, err, reservation.ErrDuplicateReservation)

	err = r.ApplyCreate(ctx, &model.Reservation{
		BaseModel: model.BaseModel{ID: "r3"},
		LotID:     "lot-1", UserID: "bob", Quantity: 3,
	})
	require.ErrorIs(t, err, reservation.ErrCapacityExceeded)

	err = r.ApplyCreate(ctx, &model.Reservation{
		BaseModel: model.BaseModel{ID: "r4"},
		LotID:     "lot-1", UserID: "bob", Quantity: 2,
	})
	require.NoError(t, err)
}

func TestMemoryApplyUpdate_EnforcesCeiling(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 10)
	ctx := context.Background()

	mustReserve(t, r, "r1", "lot-1", "alice", 2)
	mustReserve(t, r, "r2", "lot-1", "bob", 6)

	require.NoError(t, r.ApplyUpdate(ctx, "r1", 4))

	err := r.ApplyUpdate(ctx, "r1", 5)
	require.ErrorIs(t, err, reservation.ErrCapacityExceeded)

	err = r.ApplyUpdate(ctx, "missing", 1)
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestMemoryApplyDelete(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 5)
	ctx := context.Background()

	mustReserve(t, r, "r1", "lot-1", "alice", 5)

	require.NoError(t, r.ApplyDelete(ctx, "r1"))
	require.ErrorIs(t, r.ApplyDelete(ctx, "r1"), reservation.ErrNotFound)

	remaining, err := r.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 5, remaining)
}

func TestMemoryListing(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 10)
	seedLot(r, "lot-2", 10)
	ctx := context.Background()

	mustReserve(t, r, "r1", "lot-1", "alice", 1)
	mustReserve(t, r, "r2", "lot-2", "alice", 2)
	mustReserve(t, r, "r3", "lot-1", "bob", 3)

	byUser, err := r.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	byLot, err := r.ListForLot(ctx, "lot-1")
	require.NoError(t, err)
	require.Len(t, byLot, 2)

	committed, err := r.CommittedQuantity(ctx, "lot-1")
	require.NoError(t, err)
	require.Equal(t, 4, committed)

	found, err := r.ReservationFor(ctx, "lot-2", "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "r2", found.ID)

	none, err := r.ReservationFor(ctx, "lot-2", "bob")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestMemoryLotSource(t *testing.T) {
	r := NewMemoryRepository()
	seedLot(r, "lot-1", 10)
	ctx := context.Background()

	lot, err := r.LotSource().FindByID(ctx, "lot-1")
	require.NoError(t, err)
	require.NotNil(t, lot)
	require.Equal(t, 10, lot.TotalQuantity)

	missing, err := r.LotSource().FindByID(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, missing)
}
