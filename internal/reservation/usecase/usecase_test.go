package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/internal/reservation/dto"
	"github.com/gasfresco/reservation-service/internal/reservation/lock"
	"github.com/gasfresco/reservation-service/internal/reservation/repository"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

func newTestAllocator(t *testing.T) (reservation.UseCase, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	uc := NewReservationUseCase(repo, repo.LotSource(), lock.NewLocalLocker(), nil, logger.NewNop())
	return uc, repo
}

func addLot(repo *repository.MemoryRepository, id string, total int) {
	repo.AddLot(model.Lot{
		BaseModel:     model.BaseModel{ID: id},
		ProductID:     "product-1",
		UnitOfMeasure: "kg",
		TotalQuantity: total,
		UnitPrice:     2.5,
	})
}

func TestCreate_FillsLotCompletely(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 10})
	require.NoError(t, err)
	require.Equal(t, 10, res.Quantity)

	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "bob", Quantity: 1})
	require.ErrorIs(t, err, reservation.ErrInsufficientQuantity)
}

func TestCreate_Validation(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 0})
	require.ErrorIs(t, err, reservation.ErrInvalidQuantity)

	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: -3})
	require.ErrorIs(t, err, reservation.ErrInvalidQuantity)

	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "missing", UserID: "alice", Quantity: 1})
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestCreate_SuspendedLot(t *testing.T) {
	uc, repo := newTestAllocator(t)
	repo.AddLot(model.Lot{
		BaseModel:     model.BaseModel{ID: "lot-1"},
		ProductID:     "product-1",
		UnitOfMeasure: "kg",
		TotalQuantity: 10,
		UnitPrice:     2.5,
		Suspended:     true,
	})

	_, err := uc.Create(context.Background(), &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 1})
	require.ErrorIs(t, err, reservation.ErrLotSuspended)
}

func TestCreate_DuplicateRejected(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	first, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 3})
	require.NoError(t, err)

	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 2})
	require.ErrorIs(t, err, reservation.ErrDuplicateReservation)

	// The first reservation is unaffected.
	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 3, got.Quantity)
}

func TestUpdate_OwnerGrowsIntoOwnCapacity(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 4})
	require.NoError(t, err)

	// Ceiling is the full 10: alice's own 4 is excluded from the subtraction.
	updated, err := uc.Update(ctx, &dto.UpdateReservationInput{
		ReservationID:    res.ID,
		RequestingUserID: "alice",
		Quantity:         10,
	})
	require.NoError(t, err)
	require.Equal(t, 10, updated.Quantity)

	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestUpdate_CeilingExact(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 2})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "bob", Quantity: 6})
	require.NoError(t, err)

	// T=10, S(others)=6: any value in [1, 4] is accepted, 5 is not.
	for qty := 1; qty <= 4; qty++ {
		_, err := uc.Update(ctx, &dto.UpdateReservationInput{
			ReservationID:    res.ID,
			RequestingUserID: "alice",
			Quantity:         qty,
		})
		require.NoError(t, err, "qty=%d should fit", qty)
	}

	_, err = uc.Update(ctx, &dto.UpdateReservationInput{
		ReservationID:    res.ID,
		RequestingUserID: "alice",
		Quantity:         5,
	})
	require.ErrorIs(t, err, reservation.ErrInsufficientQuantity)
}

func TestUpdate_Authorization(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 2})
	require.NoError(t, err)

	_, err = uc.Update(ctx, &dto.UpdateReservationInput{
		ReservationID:    res.ID,
		RequestingUserID: "mallory",
		Quantity:         1,
	})
	require.ErrorIs(t, err, reservation.ErrUnauthorized)

	_, err = uc.Update(ctx, &dto.UpdateReservationInput{
		ReservationID:    uuid.New().String(),
		RequestingUserID: "alice",
		Quantity:         1,
	})
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestDelete_FreesQuantityImmediately(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "bob", Quantity: 6})
	require.NoError(t, err)
	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 4})
	require.NoError(t, err)

	err = uc.Delete(ctx, &dto.DeleteReservationInput{ReservationID: res.ID, RequestingUserID: "alice"})
	require.NoError(t, err)

	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 4, remaining)
}

func TestDelete_Authorization(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 2})
	require.NoError(t, err)

	err = uc.Delete(ctx, &dto.DeleteReservationInput{ReservationID: res.ID, RequestingUserID: "mallory"})
	require.ErrorIs(t, err, reservation.ErrUnauthorized)

	err = uc.Delete(ctx, &dto.DeleteReservationInput{ReservationID: uuid.New().String(), RequestingUserID: "alice"})
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestConcurrentCreate_ExactlyOneWins(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	users := []string{"alice", "bob"}
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Create(ctx, &dto.CreateReservationInput{
				LotID:    "lot-1",
				UserID:   users[i],
				Quantity: 5,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		ok := err == reservation.ErrInsufficientQuantity || err == reservation.ErrCapacityExceeded
		require.True(t, ok, "unexpected error: %v", err)
	}
	require.Equal(t, 1, successes)

	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestConcurrentCreate_UniquenessHolds(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 100)
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	var successCount, duplicateCount int64
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
			} else if err == reservation.ErrDuplicateReservation {
				duplicateCount++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), successCount)
	require.Equal(t, int64(attempts-1), duplicateCount)

	items, err := repo.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestConcurrentMixedOps_CapacityInvariantHolds(t *testing.T) {
	uc, repo := newTestAllocator(t)
	const total = 20
	addLot(repo, "lot-1", total)
	ctx := context.Background()

	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}
	var wg sync.WaitGroup
	for i, user := range users {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			qty := (i % 7) + 1
			res, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: user, Quantity: qty})
			if err != nil {
				return
			}
			// Half the winners grow, half shrink, a couple drop out.
			switch i % 3 {
			case 0:
				_, _ = uc.Update(ctx, &dto.UpdateReservationInput{
					ReservationID: res.ID, RequestingUserID: user, Quantity: qty + 3,
				})
			case 1:
				_, _ = uc.Update(ctx, &dto.UpdateReservationInput{
					ReservationID: res.ID, RequestingUserID: user, Quantity: 1,
				})
			case 2:
				_ = uc.Delete(ctx, &dto.DeleteReservationInput{ReservationID: res.ID, RequestingUserID: user})
			}
		}(i, user)
	}
	wg.Wait()

	committed, err := repo.CommittedQuantity(ctx, "lot-1")
	require.NoError(t, err)
	require.LessOrEqual(t, committed, total)

	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, total-committed, remaining)
}

func TestListForUser(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	addLot(repo, "lot-2", 10)
	ctx := context.Background()

	_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 2})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-2", UserID: "alice", Quantity: 3})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "bob", Quantity: 1})
	require.NoError(t, err)

	items, err := uc.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, res := range items {
		require.Equal(t, "alice", res.UserID)
	}
}

func TestLotAvailability(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	ctx := context.Background()

	_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 4})
	require.NoError(t, err)

	availability, err := uc.LotAvailability(ctx, "lot-1")
	require.NoError(t, err)
	require.Equal(t, "lot-1", availability.LotID)
	require.Equal(t, 10, availability.Total)
	require.Equal(t, 6, availability.Remaining)
	require.Equal(t, "2.50 €/kg", availability.PriceStr)
	require.False(t, availability.Suspended)

	_, err = uc.LotAvailability(ctx, "missing")
	require.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestReleaseAllForUser(t *testing.T) {
	uc, repo := newTestAllocator(t)
	addLot(repo, "lot-1", 10)
	addLot(repo, "lot-2", 10)
	ctx := context.Background()

	_, err := uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "alice", Quantity: 4})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-2", UserID: "alice", Quantity: 2})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &dto.CreateReservationInput{LotID: "lot-1", UserID: "bob", Quantity: 3})
	require.NoError(t, err)

	released, err := uc.ReleaseAllForUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, released)

	items, err := uc.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, items)

	// Bob is untouched, alice's capacity is back.
	remaining, err := repo.Remaining(ctx, "lot-1", "")
	require.NoError(t, err)
	require.Equal(t, 7, remaining)
}
