package storage

import (
	"context"
	"database/sql"
	"fmt"

	"groupcart/cart-svc/internal/domain"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_order_price BIGINT NOT NULL DEFAULT 0,
		pending_price BIGINT NOT NULL DEFAULT 0 CHECK (pending_price >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id SERIAL PRIMARY KEY,
		restaurant_id INT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		amount_ordered INT NOT NULL DEFAULT 0 CHECK (amount_ordered >= 0),
		UNIQUE (restaurant_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS group_orders (
		id SERIAL PRIMARY KEY,
		restaurant_id INT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		total_price BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS group_order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES group_orders(id) ON DELETE CASCADE,
		menu_id INT NOT NULL,
		name TEXT NOT NULL,
		quantity INT NOT NULL,
		price BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menus_restaurant_id ON menus(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_orders_restaurant_id ON group_orders(restaurant_id)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedCatalog inserts missing restaurants and menus. Existing rows, and
// their running aggregates, are left alone.
func (r *PostgresRepository) SeedCatalog(ctx context.Context, catalog []domain.SeedRestaurant) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, rest := range catalog {
			var id int
			err := tx.QueryRowContext(ctx, `
				INSERT INTO restaurants (name, latitude, longitude, min_order_price)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, rest.Name, rest.Latitude, rest.Longitude, rest.MinOrderPrice).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed restaurant %q: %w", rest.Name, err)
			}
			for _, m := range rest.Menus {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO menus (restaurant_id, name, price)
					VALUES ($1, $2, $3)
					ON CONFLICT (restaurant_id, name) DO NOTHING`, id, m.Name, m.Price); err != nil {
					return fmt.Errorf("seed menu %q: %w", m.Name, err)
				}
			}
		}
		return nil
	})
}
