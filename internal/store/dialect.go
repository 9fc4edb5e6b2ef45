package store

// Dialect abstracts the SQL differences between the two catalog backends.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// Placeholder returns the parameter placeholder for the given
	// position (1-indexed). SQLite ignores the position.
	Placeholder(position int) string

	// InitStatements returns backend-specific statements run once after
	// connecting.
	InitStatements() []string

	// CreateLevelsTable returns the DDL for the levels table.
	CreateLevelsTable() string

	// IsDuplicateKeyError reports a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the catalog backend.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates the Dialect for the given type.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
