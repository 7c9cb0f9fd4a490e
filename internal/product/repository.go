package product

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
}
