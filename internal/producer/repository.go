package producer

import (
	"context"

	"github.com/gasfresco/reservation-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Producer) error
	Update(ctx context.Context, p *model.Producer) error
	FindByID(ctx context.Context, id string) (*model.Producer, error)
	FindByName(ctx context.Context, name string) (*model.Producer, error)
	FindAll(ctx context.Context) ([]model.Producer, error)
}
