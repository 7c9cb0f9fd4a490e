package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/gasfresco/reservation-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Producer) error {
	query := `
        INSERT INTO producers (id, name, description, address, phone, email, created_at, updated_at)
        VALUES (:id, :name, :description, :address, :phone, :email, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Producer) error {
	query := `
        UPDATE producers SET
            name = :name,
            description = :description,
            address = :address,
            phone = :phone,
            email = :email,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Producer, error) {
	var p model.Producer
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM producers WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Producer, error) {
	var p model.Producer
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM producers WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Producer, error) {
	producers := []model.Producer{}
	err := r.DB.SelectContext(ctx, &producers, `SELECT * FROM producers ORDER BY name`)
	return producers, err
}
