// Package store is the level catalog: generated layouts persisted as
// zstd-compressed snapshots in SQLite or PostgreSQL. The generation engine
// itself never touches it; the CLI and service save finished levels here
// for later inspection.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/chunkstitch/chunkstitch/internal/layout"
)

// ErrNotFound is returned when a level id is absent from the catalog.
var ErrNotFound = errors.New("store: level not found")

// Store wraps the catalog database connection.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// LevelRecord is a catalog entry without its snapshot payload.
type LevelRecord struct {
	ID           string
	Name         string
	Seed         int64
	Dims         int
	ChunkCount   int
	OpenContexts int
	CreatedAt    time.Time
}

// Open connects to the catalog and creates the schema if needed. For the
// SQLite dialect the DSN is a file path and its directory is created.
func Open(dialectType DialectType, dsn string) (*Store, error) {
	dialect := NewDialect(dialectType)

	if dialectType == DialectSQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: init statement: %w", err)
		}
	}

	if _, err := db.Exec(dialect.CreateLevelsTable()); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// Close closes the catalog connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLevel stores a layout snapshot under a fresh id and returns it.
func (s *Store) SaveLevel(name string, seedValue int64, l *layout.Layout) (string, error) {
	blob, err := layout.Encode(l)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	d := s.dialect
	query := fmt.Sprintf(
		`INSERT INTO levels (id, name, seed, dims, chunk_count, open_contexts, snapshot)
		 VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3),
		d.Placeholder(4), d.Placeholder(5), d.Placeholder(6), d.Placeholder(7),
	)
	_, err = s.db.Exec(query, id, name, seedValue, l.Dims, len(l.Chunks), len(l.OpenContexts), blob)
	if err != nil {
		return "", fmt.Errorf("store: save level: %w", err)
	}
	return id, nil
}

// GetLayout loads and decodes the snapshot for a level id.
func (s *Store) GetLayout(id string) (*layout.Layout, error) {
	query := fmt.Sprintf(`SELECT snapshot FROM levels WHERE id = %s`, s.dialect.Placeholder(1))
	var blob []byte
	err := s.db.QueryRow(query, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get level: %w", err)
	}
	return layout.Decode(blob)
}

// ListLevels returns catalog entries, newest first.
func (s *Store) ListLevels() ([]LevelRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, seed, dims, chunk_count, open_contexts, created_at
		 FROM levels ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list levels: %w", err)
	}
	defer rows.Close()

	var records []LevelRecord
	for rows.Next() {
		var r LevelRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Seed, &r.Dims, &r.ChunkCount, &r.OpenContexts, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan level: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteLevel removes a level from the catalog.
func (s *Store) DeleteLevel(id string) error {
	query := fmt.Sprintf(`DELETE FROM levels WHERE id = %s`, s.dialect.Placeholder(1))
	result, err := s.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("store: delete level: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
