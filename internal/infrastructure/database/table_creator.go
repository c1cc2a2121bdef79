// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS experiences (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		is_published INTEGER NOT NULL DEFAULT 0,
		company_id TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS screens (
		id TEXT PRIMARY KEY,
		experience_id TEXT NOT NULL,
		name TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		FOREIGN KEY (experience_id) REFERENCES experiences(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS components (
		id TEXT PRIMARY KEY,
		screen_id TEXT NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		settings TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		FOREIGN KEY (screen_id) REFERENCES screens(id) ON DELETE CASCADE
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_experiences_company ON experiences(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_published ON experiences(company_id, is_published)`,
	`CREATE INDEX IF NOT EXISTS idx_screens_experience ON screens(experience_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_components_screen ON components(screen_id, order_index)`,
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
