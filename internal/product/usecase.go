package product

import (
	"context"
	"errors"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/product/dto"
)

var (
	// ErrNotFound is returned when the product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrProducerNotFound is returned when the referenced producer does not exist.
	ErrProducerNotFound = errors.New("producer not found")

	// ErrInvalidProduct is returned when required fields are missing.
	ErrInvalidProduct = errors.New("invalid product fields")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
}
