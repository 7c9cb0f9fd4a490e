package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/gasfresco/reservation-service/internal/lot/dto"
	"github.com/gasfresco/reservation-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, lot *model.Lot) error {
	query := `
        INSERT INTO lots (
            id, product_id, delivery_date, unit_of_measure,
            total_quantity, unit_price, suspended, created_at, updated_at
        )
        VALUES (
            :id, :product_id, :delivery_date, :unit_of_measure,
            :total_quantity, :unit_price, :suspended, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, lot)
	return err
}

func (r *PGRepository) Update(ctx context.Context, lot *model.Lot) error {
	query := `
        UPDATE lots SET
            product_id = :product_id,
            delivery_date = :delivery_date,
            unit_of_measure = :unit_of_measure,
            total_quantity = :total_quantity,
            unit_price = :unit_price,
            suspended = :suspended,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, lot)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM lots WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Lot, error) {
	var lot model.Lot
	err := r.DB.GetContext(ctx, &lot, `SELECT * FROM lots WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lot, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LotFilters) ([]model.Lot, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if !f.IncludeSuspended {
		conditions = append(conditions, "suspended = false")
	}

	query := "SELECT * FROM lots"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if f.Order == "desc" {
		query += " ORDER BY delivery_date DESC"
	} else {
		query += " ORDER BY delivery_date ASC"
	}

	lots := []model.Lot{}
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &lots, args)
	return lots, err
}
