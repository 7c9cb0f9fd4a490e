package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// PGRepository is the Postgres-backed lot ledger. Every mutation runs in a
// transaction that locks the lot row, so the invariant recheck and the write
// cannot interleave with another writer on the same lot even if the caller's
// lock is bypassed.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Remaining(ctx context.Context, lotID, excludingUserID string) (int, error) {
	var total int
	err := r.DB.GetContext(ctx, &total, `SELECT total_quantity FROM lots WHERE id = $1`, lotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, reservation.ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}

	var reserved int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM reservations WHERE lot_id = $1 AND ($2 = '' OR user_id <> $2)`
	if err := r.DB.GetContext(ctx, &reserved, query, lotID, excludingUserID); err != nil {
		return 0, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}

	remaining := total - reserved
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (r *PGRepository) CommittedQuantity(ctx context.Context, lotID string) (int, error) {
	var committed int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM reservations WHERE lot_id = $1`
	if err := r.DB.GetContext(ctx, &committed, query, lotID); err != nil {
		return 0, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return committed, nil
}

func (r *PGRepository) ReservationFor(ctx context.Context, lotID, userID string) (*model.Reservation, error) {
	var res model.Reservation
	query := `SELECT * FROM reservations WHERE lot_id = $1 AND user_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &res, query, lotID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return &res, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.DB.GetContext(ctx, &res, `SELECT * FROM reservations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return &res, nil
}

func (r *PGRepository) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	items := []model.Reservation{}
	query := `SELECT * FROM reservations WHERE user_id = $1 ORDER BY created_at`
	if err := r.DB.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return items, nil
}

func (r *PGRepository) ListForLot(ctx context.Context, lotID string) ([]model.Reservation, error) {
	items := []model.Reservation{}
	query := `SELECT * FROM reservations WHERE lot_id = $1 ORDER BY created_at`
	if err := r.DB.SelectContext(ctx, &items, query, lotID); err != nil {
		return nil, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return items, nil
}

func (r *PGRepository) ApplyCreate(ctx context.Context, res *model.Reservation) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	defer tx.Rollback()

	remaining, err := remainingForUpdate(ctx, tx, res.LotID, "")
	if err != nil {
		return err
	}
	if res.Quantity > remaining {
		return reservation.ErrCapacityExceeded
	}

	query := `
        INSERT INTO reservations (id, lot_id, user_id, quantity, created_at, updated_at)
        VALUES (:id, :lot_id, :user_id, :quantity, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, res); err != nil {
		return mapConstraintError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *PGRepository) ApplyUpdate(ctx context.Context, id string, quantity int) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	defer tx.Rollback()

	var current model.Reservation
	err = tx.GetContext(ctx, &current, `SELECT * FROM reservations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservation.ErrNotFound
		}
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}

	ceiling, err := remainingForUpdate(ctx, tx, current.LotID, current.UserID)
	if err != nil {
		return err
	}
	if quantity > ceiling {
		return reservation.ErrCapacityExceeded
	}

	query := `UPDATE reservations SET quantity = $1, updated_at = now() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, quantity, id); err != nil {
		return mapConstraintError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *PGRepository) ApplyDelete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}
	if affected == 0 {
		return reservation.ErrNotFound
	}
	return nil
}

// remainingForUpdate locks the lot row, serializing all reservation writes on
// the lot for the rest of the transaction, then recomputes the availability.
func remainingForUpdate(ctx context.Context, tx *sqlx.Tx, lotID, excludingUserID string) (int, error) {
	var total int
	err := tx.GetContext(ctx, &total, `SELECT total_quantity FROM lots WHERE id = $1 FOR UPDATE`, lotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, reservation.ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}

	var reserved int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM reservations WHERE lot_id = $1 AND ($2 = '' OR user_id <> $2)`
	if err := tx.GetContext(ctx, &reserved, query, lotID, excludingUserID); err != nil {
		return 0, fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
	}

	return total - reserved, nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return reservation.ErrDuplicateReservation
		case pgCheckViolation:
			return reservation.ErrCapacityExceeded
		}
	}
	return fmt.Errorf("%w: %v", reservation.ErrDependencyUnavailable, err)
}
