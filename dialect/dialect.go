package dialect

import "context"

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Querier wraps the read path of a database connection. Catalog
// introspection never writes, so this is the whole surface the
// metadata readers depend on.
type Querier interface {
	// Query executes a query that returns rows, typically a SELECT
	// against the catalog. The args must be []any and v must be a
	// pointer to the dialect rows type.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for
// reading catalog metadata from a database.
type Driver interface {
	Querier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Supported reports whether the given dialect name is known.
func Supported(name string) bool {
	switch name {
	case MySQL, SQLite, Postgres:
		return true
	}
	return false
}
