package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

// NewClient opens a pooled connection to Postgres and verifies it with a ping.
func NewClient(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Bootstrap creates the schema if it does not exist yet.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id             BIGSERIAL PRIMARY KEY,
			username       TEXT NOT NULL UNIQUE,
			email          TEXT NOT NULL UNIQUE,
			password_hash  TEXT NOT NULL,
			is_verified    BOOLEAN NOT NULL DEFAULT FALSE,
			otp            TEXT,
			otp_expires_at TIMESTAMPTZ,
			ai_name        TEXT,
			auth_provider  TEXT NOT NULL DEFAULT 'local',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS stories (
			id              BIGSERIAL PRIMARY KEY,
			title           TEXT NOT NULL,
			genre           TEXT NOT NULL,
			ai_name         TEXT NOT NULL,
			cover_image_url TEXT,
			user_id         BIGINT REFERENCES users(id),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			id             BIGSERIAL PRIMARY KEY,
			story_id       BIGINT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
			chapter_number INT NOT NULL,
			title          TEXT NOT NULL DEFAULT 'Untitled Chapter',
			content        TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stories_user_id ON stories(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_story_id ON chapters(story_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
