package db

import (
	"context"
	"fmt"
)

// InitSchema creates the tables the service needs when they do not
// exist yet. Safe to run on every startup.
func InitSchema(ctx context.Context, q Querier) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			token TEXT PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			context JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS route_drafts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			city TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'en',
			duration_min INT NOT NULL,
			transport_mode TEXT NOT NULL DEFAULT 'walking',
			status TEXT NOT NULL,
			payload JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS route_points (
			id UUID PRIMARY KEY,
			route_id UUID NOT NULL REFERENCES route_drafts(id) ON DELETE CASCADE,
			poi_id TEXT NOT NULL,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			order_index INT NOT NULL,
			eta_min_walk INT,
			eta_min_drive INT,
			listen_sec INT,
			source_poi_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_route_drafts_user_created
			ON route_drafts(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_route_points_route_order
			ON route_points(route_id, order_index)`,
	}

	for i, stmt := range statements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}
