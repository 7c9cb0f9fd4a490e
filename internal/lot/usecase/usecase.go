package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/lot"
	"github.com/gasfresco/reservation-service/internal/lot/dto"
	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

// ProductSource supplies product records for validation and display joins.
type ProductSource interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type lotUseCase struct {
	repo     lot.Repository
	ledger   reservation.Repository
	locker   reservation.Locker
	products ProductSource
	logger   logger.ZapLogger
}

func NewLotUseCase(
	repo lot.Repository,
	ledger reservation.Repository,
	locker reservation.Locker,
	products ProductSource,
	log logger.ZapLogger,
) lot.UseCase {
	return &lotUseCase{
		repo:     repo,
		ledger:   ledger,
		locker:   locker,
		products: products,
		logger:   log,
	}
}

func validateLotFields(productID, unitOfMeasure string, totalQuantity int, unitPrice float64) error {
	if productID == "" || unitOfMeasure == "" {
		return lot.ErrInvalidLot
	}
	if totalQuantity < 1 || unitPrice <= 0 {
		return lot.ErrInvalidLot
	}
	return nil
}

func (uc *lotUseCase) CreateLot(ctx context.Context, input *dto.CreateLotInput) (*model.Lot, error) {
	if err := validateLotFields(input.ProductID, input.UnitOfMeasure, input.TotalQuantity, input.UnitPrice); err != nil {
		return nil, err
	}

	product, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, lot.ErrProductNotFound
	}

	now := time.Now()
	l := &model.Lot{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ProductID:     input.ProductID,
		DeliveryDate:  input.DeliveryDate,
		UnitOfMeasure: input.UnitOfMeasure,
		TotalQuantity: input.TotalQuantity,
		UnitPrice:     input.UnitPrice,
		Suspended:     input.Suspended,
	}

	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	uc.logger.Info("lot created", zap.String("lot_id", l.ID), zap.String("product_id", l.ProductID))
	return l, nil
}

func (uc *lotUseCase) UpdateLot(ctx context.Context, input *dto.UpdateLotInput) (*model.Lot, error) {
	if err := validateLotFields(input.ProductID, input.UnitOfMeasure, input.TotalQuantity, input.UnitPrice); err != nil {
		return nil, err
	}

	// Capacity changes race with the allocator, so they honor the same
	// per-lot lock before reading the committed sum.
	release, err := uc.locker.Lock(ctx, "lock:lot:"+input.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	l, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, lot.ErrNotFound
	}

	committed, err := uc.ledger.CommittedQuantity(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.TotalQuantity < committed {
		return nil, lot.ErrQuantityBelowCommitted
	}

	if input.ProductID != l.ProductID {
		product, err := uc.products.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, lot.ErrProductNotFound
		}
	}

	l.ProductID = input.ProductID
	l.DeliveryDate = input.DeliveryDate
	l.UnitOfMeasure = input.UnitOfMeasure
	l.TotalQuantity = input.TotalQuantity
	l.UnitPrice = input.UnitPrice
	l.Suspended = input.Suspended
	l.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	uc.logger.Info("lot updated", zap.String("lot_id", l.ID), zap.Int("total_quantity", l.TotalQuantity))
	return l, nil
}

func (uc *lotUseCase) DeleteLot(ctx context.Context, id string) error {
	release, err := uc.locker.Lock(ctx, "lock:lot:"+id)
	if err != nil {
		return err
	}
	defer release()

	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return lot.ErrNotFound
	}

	reservations, err := uc.ledger.ListForLot(ctx, id)
	if err != nil {
		return err
	}
	if len(reservations) > 0 {
		return lot.ErrLotHasReservations
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("lot deleted", zap.String("lot_id", id))
	return nil
}

func (uc *lotUseCase) GetLot(ctx context.Context, id string) (*model.Lot, error) {
	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, lot.ErrNotFound
	}
	return l, nil
}

func (uc *lotUseCase) ListLots(ctx context.Context, filters *dto.LotFilters) ([]dto.LotView, error) {
	lots, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	productNames := map[string]string{}
	views := make([]dto.LotView, 0, len(lots))
	for i := range lots {
		l := &lots[i]

		committed, err := uc.ledger.CommittedQuantity(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		remaining := l.TotalQuantity - committed
		if remaining < 0 {
			remaining = 0
		}

		name, ok := productNames[l.ProductID]
		if !ok {
			if product, err := uc.products.FindByID(ctx, l.ProductID); err == nil && product != nil {
				name = product.Name
			}
			productNames[l.ProductID] = name
		}

		views = append(views, dto.LotView{
			ID:              l.ID,
			ProductID:       l.ProductID,
			ProductName:     name,
			DeliveryDate:    l.DeliveryDate,
			DeliveryDateStr: l.DeliveryDateStr(),
			UnitOfMeasure:   l.UnitOfMeasure,
			Total:           l.TotalQuantity,
			Remaining:       remaining,
			UnitPrice:       l.UnitPrice,
			PriceStr:        l.PriceStr(),
			Suspended:       l.Suspended,
		})
	}
	return views, nil
}
