package producer

import (
	"context"
	"errors"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/producer/dto"
)

var (
	// ErrNotFound is returned when the producer does not exist.
	ErrNotFound = errors.New("producer not found")

	// ErrNameTaken is returned when another producer already uses the name.
	ErrNameTaken = errors.New("producer name already taken")

	// ErrInvalidProducer is returned when required fields are missing.
	ErrInvalidProducer = errors.New("invalid producer fields")
)

type UseCase interface {
	CreateProducer(ctx context.Context, input *dto.CreateProducerInput) (*model.Producer, error)
	UpdateProducer(ctx context.Context, input *dto.UpdateProducerInput) (*model.Producer, error)
	GetProducer(ctx context.Context, id string) (*model.Producer, error)
	ListProducers(ctx context.Context) ([]model.Producer, error)
}
