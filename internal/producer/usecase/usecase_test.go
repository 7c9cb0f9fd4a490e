package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/producer"
	"github.com/gasfresco/reservation-service/internal/producer/dto"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type fakeProducerRepo struct {
	producers map[string]model.Producer
}

func newFakeProducerRepo() *fakeProducerRepo {
	return &fakeProducerRepo{producers: make(map[string]model.Producer)}
}

func (f *fakeProducerRepo) Create(ctx context.Context, p *model.Producer) error {
	f.producers[p.ID] = *p
	return nil
}

func (f *fakeProducerRepo) Update(ctx context.Context, p *model.Producer) error {
	f.producers[p.ID] = *p
	return nil
}

func (f *fakeProducerRepo) FindByID(ctx context.Context, id string) (*model.Producer, error) {
	p, ok := f.producers[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (f *fakeProducerRepo) FindByName(ctx context.Context, name string) (*model.Producer, error) {
	for _, p := range f.producers {
		if p.Name == name {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeProducerRepo) FindAll(ctx context.Context) ([]model.Producer, error) {
	items := []model.Producer{}
	for _, p := range f.producers {
		items = append(items, p)
	}
	return items, nil
}

func TestCreateProducer(t *testing.T) {
	uc := NewProducerUseCase(newFakeProducerRepo(), logger.NewNop())
	ctx := context.Background()

	p, err := uc.CreateProducer(ctx, &dto.CreateProducerInput{
		Name:  "Azienda Agricola Rossi",
		Email: "info@rossi.example",
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	_, err = uc.CreateProducer(ctx, &dto.CreateProducerInput{
		Name:  "Azienda Agricola Rossi",
		Email: "other@rossi.example",
	})
	require.ErrorIs(t, err, producer.ErrNameTaken)

	_, err = uc.CreateProducer(ctx, &dto.CreateProducerInput{Name: "", Email: "x@y.example"})
	require.ErrorIs(t, err, producer.ErrInvalidProducer)
}

func TestUpdateProducer(t *testing.T) {
	uc := NewProducerUseCase(newFakeProducerRepo(), logger.NewNop())
	ctx := context.Background()

	first, err := uc.CreateProducer(ctx, &dto.CreateProducerInput{Name: "Rossi", Email: "a@a.example"})
	require.NoError(t, err)
	_, err = uc.CreateProducer(ctx, &dto.CreateProducerInput{Name: "Bianchi", Email: "b@b.example"})
	require.NoError(t, err)

	// Renaming onto another producer's name is rejected.
	_, err = uc.UpdateProducer(ctx, &dto.UpdateProducerInput{
		ID: first.ID, Name: "Bianchi", Email: "a@a.example",
	})
	require.ErrorIs(t, err, producer.ErrNameTaken)

	// Keeping the same name is fine.
	updated, err := uc.UpdateProducer(ctx, &dto.UpdateProducerInput{
		ID: first.ID, Name: "Rossi", Email: "new@a.example",
	})
	require.NoError(t, err)
	require.Equal(t, "new@a.example", updated.Email)

	_, err = uc.UpdateProducer(ctx, &dto.UpdateProducerInput{
		ID: "missing", Name: "Verdi", Email: "v@v.example",
	})
	require.ErrorIs(t, err, producer.ErrNotFound)
}
