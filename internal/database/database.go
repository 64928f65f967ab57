package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

func NewConnection(connectStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.Println("Database connection established")
	return db, nil
}

// EnsureSchema creates the tables this tool writes to if they do not exist.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS presentations (
			id SERIAL PRIMARY KEY,
			presentation_id TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			slide_count INT NOT NULL DEFAULT 0,
			ai_summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS presentation_slides (
			id SERIAL PRIMARY KEY,
			presentation_ref INT NOT NULL REFERENCES presentations(id) ON DELETE CASCADE,
			slide_number INT NOT NULL,
			slide_id TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			speaker_notes TEXT NOT NULL DEFAULT '',
			images JSONB NOT NULL DEFAULT '[]',
			shapes JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
