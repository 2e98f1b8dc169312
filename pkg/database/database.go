package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	return pool, nil
}

// Schema statements, in dependency order. The partial unique index on
// rentals is what keeps a user down to one active rental under concurrency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT,
		cpf TEXT,
		points INTEGER NOT NULL DEFAULT 100,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bikes (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rentals (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		bike_id UUID NOT NULL REFERENCES bikes(id),
		start_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_time TIMESTAMPTZ,
		points INTEGER NOT NULL DEFAULT 10,
		cost DOUBLE PRECISION
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS rentals_one_active_per_user
		ON rentals (user_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS rentals_bike_id_idx ON rentals (bike_id)`,
	`CREATE TABLE IF NOT EXISTS scheduled_rides (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		date_time TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("Database schema ensured")
	return nil
}
