package store

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for PostgreSQL catalogs.
type PostgresDialect struct{}

// DriverName returns "postgres" for the lib/pq driver.
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns "$N" for the given position.
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// InitStatements returns no statements; PostgreSQL needs no session setup
// for the catalog schema.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) CreateLevelsTable() string {
	return `CREATE TABLE IF NOT EXISTS levels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed BIGINT NOT NULL,
		dims INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,
		open_contexts INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		snapshot BYTEA NOT NULL
	)`
}

// IsDuplicateKeyError reports a PostgreSQL unique violation (code 23505).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "unique constraint")
}
