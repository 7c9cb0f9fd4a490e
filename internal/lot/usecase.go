package lot

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/lot/dto"
	"github.com/gasfresco/reservation-service/internal/model"
)

type UseCase interface {
	CreateLot(ctx context.Context, input *dto.CreateLotInput) (*model.Lot, error)
	UpdateLot(ctx context.Context, input *dto.UpdateLotInput) (*model.Lot, error)
	DeleteLot(ctx context.Context, id string) error
	GetLot(ctx context.Context, id string) (*model.Lot, error)
	ListLots(ctx context.Context, filters *dto.LotFilters) ([]dto.LotView, error)
}
