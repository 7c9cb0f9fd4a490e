package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/internal/reservation/dto"
	"github.com/gasfresco/reservation-service/pkg/cache"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

const availabilityTTL = 5 * time.Second

type reservationUseCase struct {
	repo   reservation.Repository
	lots   reservation.LotSource
	locker reservation.Locker
	cache  *cache.RedisClient // nil when no redis is configured
	logger logger.ZapLogger
}

func NewReservationUseCase(
	repo reservation.Repository,
	lots reservation.LotSource,
	locker reservation.Locker,
	c *cache.RedisClient,
	log logger.ZapLogger,
) reservation.UseCase {
	return &reservationUseCase{
		repo:   repo,
		lots:   lots,
		locker: locker,
		cache:  c,
		logger: log,
	}
}

func lotLockKey(lotID string) string {
	return "lock:lot:" + lotID
}

func availabilityCacheKey(lotID string) string {
	return "lot:availability:" + lotID
}

func (uc *reservationUseCase) Create(ctx context.Context, input *dto.CreateReservationInput) (*model.Reservation, error) {
	if input.Quantity < 1 {
		return nil, reservation.ErrInvalidQuantity
	}
	if input.LotID == "" || input.UserID == "" {
		return nil, reservation.ErrNotFound
	}

	release, err := uc.locker.Lock(ctx, lotLockKey(input.LotID))
	if err != nil {
		return nil, err
	}
	defer release()

	lot, err := uc.lots.FindByID(ctx, input.LotID)
	if err != nil {
		return nil, fmt.Errorf("%w: lot lookup: %v", reservation.ErrDependencyUnavailable, err)
	}
	if lot == nil {
		return nil, reservation.ErrNotFound
	}
	if lot.Suspended {
		return nil, reservation.ErrLotSuspended
	}

	existing, err := uc.repo.ReservationFor(ctx, input.LotID, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reservation.ErrDuplicateReservation
	}

	remaining, err := uc.repo.Remaining(ctx, input.LotID, "")
	if err != nil {
		return nil, err
	}
	if input.Quantity > remaining {
		return nil, reservation.ErrInsufficientQuantity
	}

	now := time.Now()
	res := &model.Reservation{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		LotID:     input.LotID,
		UserID:    input.UserID,
		Quantity:  input.Quantity,
	}

	if err := uc.repo.ApplyCreate(ctx, res); err != nil {
		return nil, err
	}

	uc.invalidateAvailability(ctx, input.LotID)
	uc.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("lot_id", res.LotID),
		zap.String("user_id", res.UserID),
		zap.Int("quantity", res.Quantity),
	)
	return res, nil
}

func (uc *reservationUseCase) Update(ctx context.Context, input *dto.UpdateReservationInput) (*model.Reservation, error) {
	if input.Quantity < 1 {
		return nil, reservation.ErrInvalidQuantity
	}

	// First read just resolves the lot so we know which lock to take. It is
	// repeated inside the locked section before any decision is made.
	res, err := uc.repo.FindByID(ctx, input.ReservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, reservation.ErrNotFound
	}
	if res.UserID != input.RequestingUserID {
		return nil, reservation.ErrUnauthorized
	}

	release, err := uc.locker.Lock(ctx, lotLockKey(res.LotID))
	if err != nil {
		return nil, err
	}
	defer release()

	res, err = uc.repo.FindByID(ctx, input.ReservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, reservation.ErrNotFound
	}
	if res.UserID != input.RequestingUserID {
		return nil, reservation.ErrUnauthorized
	}

	// The owner may grow into the capacity their own reservation holds.
	ceiling, err := uc.repo.Remaining(ctx, res.LotID, res.UserID)
	if err != nil {
		return nil, err
	}
	if input.Quantity > ceiling {
		return nil, reservation.ErrInsufficientQuantity
	}

	if err := uc.repo.ApplyUpdate(ctx, res.ID, input.Quantity); err != nil {
		return nil, err
	}

	res.Quantity = input.Quantity
	uc.invalidateAvailability(ctx, res.LotID)
	uc.logger.Info("reservation updated",
		zap.String("reservation_id", res.ID),
		zap.String("lot_id", res.LotID),
		zap.Int("quantity", res.Quantity),
	)
	return res, nil
}

func (uc *reservationUseCase) Delete(ctx context.Context, input *dto.DeleteReservationInput) error {
	res, err := uc.repo.FindByID(ctx, input.ReservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return reservation.ErrNotFound
	}
	if res.UserID != input.RequestingUserID {
		return reservation.ErrUnauthorized
	}

	release, err := uc.locker.Lock(ctx, lotLockKey(res.LotID))
	if err != nil {
		return err
	}
	defer release()

	if err := uc.repo.ApplyDelete(ctx, res.ID); err != nil {
		return err
	}

	uc.invalidateAvailability(ctx, res.LotID)
	uc.logger.Info("reservation deleted",
		zap.String("reservation_id", res.ID),
		zap.String("lot_id", res.LotID),
		zap.String("user_id", res.UserID),
	)
	return nil
}

func (uc *reservationUseCase) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return uc.repo.ListForUser(ctx, userID)
}

func (uc *reservationUseCase) LotAvailability(ctx context.Context, lotID string) (*dto.LotAvailability, error) {
	// Advisory read: may be served stale from cache. Writes never trust it.
	if uc.cache != nil {
		if val, err := uc.cache.Get(ctx, availabilityCacheKey(lotID)); err == nil && val != "" {
			var out dto.LotAvailability
			if err := json.Unmarshal([]byte(val), &out); err == nil {
				return &out, nil
			}
		}
	}

	lot, err := uc.lots.FindByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("%w: lot lookup: %v", reservation.ErrDependencyUnavailable, err)
	}
	if lot == nil {
		return nil, reservation.ErrNotFound
	}

	remaining, err := uc.repo.Remaining(ctx, lotID, "")
	if err != nil {
		return nil, err
	}

	out := &dto.LotAvailability{
		LotID:           lot.ID,
		Total:           lot.TotalQuantity,
		Remaining:       remaining,
		PriceStr:        lot.PriceStr(),
		DeliveryDateStr: lot.DeliveryDateStr(),
		Suspended:       lot.Suspended,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = uc.cache.Set(ctx, availabilityCacheKey(lotID), string(data), availabilityTTL)
		}
	}
	return out, nil
}

func (uc *reservationUseCase) ReleaseAllForUser(ctx context.Context, userID string) (int, error) {
	items, err := uc.repo.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, res := range items {
		release, err := uc.locker.Lock(ctx, lotLockKey(res.LotID))
		if err != nil {
			return released, err
		}

		err = uc.repo.ApplyDelete(ctx, res.ID)
		release()
		if err != nil {
			// Already gone is fine, the goal is zero reservations.
			if errors.Is(err, reservation.ErrNotFound) {
				continue
			}
			return released, err
		}

		released++
		uc.invalidateAvailability(ctx, res.LotID)
	}

	if released > 0 {
		uc.logger.Info("released reservations for removed account",
			zap.String("user_id", userID),
			zap.Int("count", released),
		)
	}
	return released, nil
}

func (uc *reservationUseCase) invalidateAvailability(ctx context.Context, lotID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, availabilityCacheKey(lotID)); err != nil {
		uc.logger.Warn("failed to invalidate availability cache",
			zap.String("lot_id", lotID), zap.Error(err))
	}
}
