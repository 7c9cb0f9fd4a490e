package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/pkg/logger"
)

// schema keeps the reservation invariants enforced in storage itself:
// quantity must stay positive and a user holds at most one reservation per
// lot, so a racing writer that slips past the allocator still cannot commit
// an invalid row.
const schema = `
CREATE TABLE IF NOT EXISTS producers (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    phone       TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    producer_id TEXT NOT NULL REFERENCES producers(id),
    name        TEXT NOT NULL,
    image_url   TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lots (
    id              TEXT PRIMARY KEY,
    product_id      TEXT NOT NULL REFERENCES products(id),
    delivery_date   DATE NOT NULL,
    unit_of_measure TEXT NOT NULL,
    total_quantity  INTEGER NOT NULL CHECK (total_quantity > 0),
    unit_price      NUMERIC(10,2) NOT NULL CHECK (unit_price > 0),
    suspended       BOOLEAN NOT NULL DEFAULT false,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
    id         TEXT PRIMARY KEY,
    lot_id     TEXT NOT NULL REFERENCES lots(id),
    user_id    TEXT NOT NULL,
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT lot_user_unique UNIQUE (lot_id, user_id)
);
`

// Bootstrap creates the schema and, when fixturesDir is set and the catalog
// is empty, loads the JSON fixtures. Runs once at process start and is
// idempotent, so a restart or a second instance is harmless.
func Bootstrap(ctx context.Context, db *sqlx.DB, fixturesDir string, log logger.ZapLogger) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if fixturesDir == "" {
		return nil
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT count(*) FROM producers`); err != nil {
		return fmt.Errorf("check fixtures: %w", err)
	}
	if count > 0 {
		log.Debug("fixtures already loaded, skipping")
		return nil
	}

	log.Info("loading fixtures", zap.String("dir", fixturesDir))
	return loadFixtures(ctx, db, fixturesDir)
}

type producerFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type productFixture struct {
	ID         string `json:"id"`
	ProducerID string `json:"producer_id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
}

type lotFixture struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	DeliveryDate  string  `json:"delivery_date"` // YYYY-MM-DD
	UnitOfMeasure string  `json:"unit_of_measure"`
	TotalQuantity int     `json:"total"`
	UnitPrice     float64 `json:"unit_price"`
	Suspended     bool    `json:"suspended"`
}

type reservationFixture struct {
	ID       string `json:"id"`
	LotID    string `json:"lot_id"`
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}

func loadFixtures(ctx context.Context, db *sqlx.DB, dir string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var producers []producerFixture
	if err := readFixtureFile(dir, "producers.json", &producers); err != nil {
		return err
	}
	for _, p := range producers {
		query := `
            INSERT INTO producers (id, name, description, address, phone, email)
            VALUES ($1, $2, $3, $4, $5, $6)
        `
		if _, err := tx.ExecContext(ctx, query, orNewID(p.ID), p.Name, p.Description, p.Address, p.Phone, p.Email); err != nil {
			return fmt.Errorf("seed producer %s: %w", p.Name, err)
		}
	}

	var products []productFixture
	if err := readFixtureFile(dir, "products.json", &products); err != nil {
		return err
	}
	for _, p := range products {
		query := `INSERT INTO products (id, producer_id, name, image_url) VALUES ($1, $2, $3, NULLIF($4, ''))`
		if _, err := tx.ExecContext(ctx, query, orNewID(p.ID), p.ProducerID, p.Name, p.ImageURL); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	var lots []lotFixture
	if err := readFixtureFile(dir, "lots.json", &lots); err != nil {
		return err
	}
	for _, l := range lots {
		date, err := time.Parse("2006-01-02", l.DeliveryDate)
		if err != nil {
			return fmt.Errorf("seed lot %s: bad delivery_date %q", l.ID, l.DeliveryDate)
		}
		query := `
            INSERT INTO lots (id, product_id, delivery_date, unit_of_measure, total_quantity, unit_price, suspended)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `
		if _, err := tx.ExecContext(ctx, query, orNewID(l.ID), l.ProductID, date, l.UnitOfMeasure, l.TotalQuantity, l.UnitPrice, l.Suspended); err != nil {
			return fmt.Errorf("seed lot %s: %w", l.ID, err)
		}
	}

	var reservations []reservationFixture
	if err := readFixtureFile(dir, "reservations.json", &reservations); err != nil {
		return err
	}
	for _, r := range reservations {
		query := `INSERT INTO reservations (id, lot_id, user_id, quantity) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, query, orNewID(r.ID), r.LotID, r.UserID, r.Quantity); err != nil {
			return fmt.Errorf("seed reservation %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// readFixtureFile decodes dir/name into out. A missing file is not an error,
// fixture sets may be partial.
func readFixtureFile(dir, name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func orNewID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}
