// Package schema implements the metadata-access protocol: a read-only view
// of a database catalog that enumerates tables, columns, primary keys and
// foreign keys.
package schema

import (
	"context"
	"fmt"

	"github.com/syssam/qgen/dialect"
)

// MetaData is the metadata-access protocol consumed by the exporter.
// Implementations must return columns in catalog (ordinal) order, key
// columns with their 1-based sequence, and foreign key columns with the
// constraint they belong to.
type MetaData interface {
	// Tables enumerates the tables matching the given SQL LIKE patterns.
	// An empty pattern matches everything.
	Tables(ctx context.Context, schemaPattern, tablePattern string) ([]TableRef, error)
	// Columns returns the columns of the given table.
	Columns(ctx context.Context, t TableRef) ([]Column, error)
	// PrimaryKeys returns the primary key columns of the given table.
	PrimaryKeys(ctx context.Context, t TableRef) ([]KeyColumn, error)
	// ForeignKeys returns the imported foreign key columns of the given table.
	ForeignKeys(ctx context.Context, t TableRef) ([]ForeignKeyColumn, error)
}

// TableRef identifies a table in the catalog.
type TableRef struct {
	Schema string `json:"schema,omitempty" msgpack:"schema,omitempty"`
	Name   string `json:"name" msgpack:"name"`
}

// String returns the qualified table name.
func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column describes one column of a table as reported by the catalog.
type Column struct {
	Name     string   `json:"name" msgpack:"name"`
	Type     TypeCode `json:"type" msgpack:"type"`
	TypeName string   `json:"type_name,omitempty" msgpack:"type_name,omitempty"`
	// Size is the column size: character length or numeric precision.
	Size int64 `json:"size,omitempty" msgpack:"size,omitempty"`
	// Scale is the number of fractional digits.
	Scale    int64 `json:"scale,omitempty" msgpack:"scale,omitempty"`
	Nullable bool  `json:"nullable,omitempty" msgpack:"nullable,omitempty"`
	// Position is the 1-based ordinal position.
	Position int `json:"position" msgpack:"position"`
}

// KeyColumn is one column of a primary key.
type KeyColumn struct {
	Constraint string `json:"constraint,omitempty" msgpack:"constraint,omitempty"`
	Column     string `json:"column" msgpack:"column"`
	Seq        int    `json:"seq" msgpack:"seq"`
}

// ForeignKeyColumn is one column of an imported foreign key. An empty
// RefColumn means the reference targets the primary key of RefTable.
type ForeignKeyColumn struct {
	Constraint string `json:"constraint,omitempty" msgpack:"constraint,omitempty"`
	Column     string `json:"column" msgpack:"column"`
	RefSchema  string `json:"ref_schema,omitempty" msgpack:"ref_schema,omitempty"`
	RefTable   string `json:"ref_table" msgpack:"ref_table"`
	RefColumn  string `json:"ref_column,omitempty" msgpack:"ref_column,omitempty"`
	Seq        int    `json:"seq" msgpack:"seq"`
}

// Open returns the catalog reader for the dialect of the given driver.
func Open(drv dialect.Driver) (MetaData, error) {
	switch d := drv.Dialect(); d {
	case dialect.Postgres:
		return NewPostgres(drv), nil
	case dialect.MySQL:
		return NewMySQL(drv), nil
	case dialect.SQLite:
		return NewSQLite(drv), nil
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}
}
