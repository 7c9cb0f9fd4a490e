package lot

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/lot/dto"
	"github.com/gasfresco/reservation-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, lot *model.Lot) error
	Update(ctx context.Context, lot *model.Lot) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Lot, error)
	FindAll(ctx context.Context, filters *dto.LotFilters) ([]model.Lot, error)
}
