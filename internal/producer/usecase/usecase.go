package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/producer"
	"github.com/gasfresco/reservation-service/internal/producer/dto"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type producerUseCase struct {
	repo   producer.Repository
	logger logger.ZapLogger
}

func NewProducerUseCase(repo producer.Repository, log logger.ZapLogger) producer.UseCase {
	return &producerUseCase{repo: repo, logger: log}
}

func (uc *producerUseCase) CreateProducer(ctx context.Context, input *dto.CreateProducerInput) (*model.Producer, error) {
	if input.Name == "" || input.Email == "" {
		return nil, producer.ErrInvalidProducer
	}

	existing, err := uc.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, producer.ErrNameTaken
	}

	now := time.Now()
	p := &model.Producer{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		Email:       input.Email,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("producer created", zap.String("producer_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (uc *producerUseCase) UpdateProducer(ctx context.Context, input *dto.UpdateProducerInput) (*model.Producer, error) {
	if input.Name == "" || input.Email == "" {
		return nil, producer.ErrInvalidProducer
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, producer.ErrNotFound
	}

	if p.Name != input.Name {
		existing, err := uc.repo.FindByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != p.ID {
			return nil, producer.ErrNameTaken
		}
	}

	p.Name = input.Name
	p.Description = input.Description
	p.Address = input.Address
	p.Phone = input.Phone
	p.Email = input.Email
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *producerUseCase) GetProducer(ctx context.Context, id string) (*model.Producer, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, producer.ErrNotFound
	}
	return p, nil
}

func (uc *producerUseCase) ListProducers(ctx context.Context) ([]model.Producer, error) {
	return uc.repo.FindAll(ctx)
}
