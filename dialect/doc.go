// Package dialect provides the database dialect abstraction used by qgen to
// read catalog metadata.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// Catalog readers only need the read path of a connection:
//
//	type Driver interface {
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed driver, query statistics
//   - dialect/sql/schema: the metadata-access protocol and its catalog readers
package dialect
