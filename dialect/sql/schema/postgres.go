package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql"
)

// Postgres reads catalog metadata from the PostgreSQL information_schema.
type Postgres struct {
	dialect.Querier
}

// NewPostgres returns a Postgres catalog reader.
func NewPostgres(q dialect.Querier) *Postgres {
	return &Postgres{Querier: q}
}

const (
	pgTablesQuery = `SELECT table_schema, table_name FROM information_schema.tables ` +
		`WHERE table_type IN ('BASE TABLE', 'VIEW') AND table_schema NOT IN ('pg_catalog', 'information_schema') ` +
		`AND table_schema LIKE $1 AND table_name LIKE $2 ORDER BY table_schema, table_name`
	pgColumnsQuery = `SELECT column_name, data_type, udt_name, character_maximum_length, numeric_precision, numeric_scale, is_nullable, ordinal_position ` +
		`FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
	pgPrimaryKeysQuery = `SELECT tc.constraint_name, kcu.column_name, kcu.ordinal_position ` +
		`FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ` +
		`ON tc.constraint_schema = kcu.constraint_schema AND tc.constraint_name = kcu.constraint_name AND tc.table_name = kcu.table_name ` +
		`WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1 AND tc.table_name = $2 ORDER BY kcu.ordinal_position`
	pgForeignKeysQuery = `SELECT kcu.constraint_name, kcu.column_name, ccu.table_schema, ccu.table_name, ccu.column_name, kcu.ordinal_position ` +
		`FROM information_schema.key_column_usage kcu ` +
		`JOIN information_schema.referential_constraints rc ON rc.constraint_schema = kcu.constraint_schema AND rc.constraint_name = kcu.constraint_name ` +
		`JOIN information_schema.key_column_usage ccu ON ccu.constraint_schema = rc.unique_constraint_schema ` +
		`AND ccu.constraint_name = rc.unique_constraint_name AND ccu.ordinal_position = kcu.position_in_unique_constraint ` +
		`WHERE kcu.table_schema = $1 AND kcu.table_name = $2 ORDER BY kcu.constraint_name, kcu.ordinal_position`
)

// Tables implements MetaData.
func (p *Postgres) Tables(ctx context.Context, schemaPattern, tablePattern string) ([]TableRef, error) {
	var tables []TableRef
	err := sql.ScanEach(ctx, p, pgTablesQuery, []any{orAll(schemaPattern), orAll(tablePattern)}, func(s sql.ColumnScanner) error {
		var t TableRef
		if err := s.Scan(&t.Schema, &t.Name); err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: query tables: %w", err)
	}
	return tables, nil
}

// Columns implements MetaData.
func (p *Postgres) Columns(ctx context.Context, t TableRef) ([]Column, error) {
	var columns []Column
	err := sql.ScanEach(ctx, p, pgColumnsQuery, []any{t.Schema, t.Name}, func(s sql.ColumnScanner) error {
		var (
			c                       Column
			dataType, udt, nullable string
			length, prec, scale     sql.NullInt64
		)
		if err := s.Scan(&c.Name, &dataType, &udt, &length, &prec, &scale, &nullable, &c.Position); err != nil {
			return err
		}
		c.TypeName = dataType
		switch dataType {
		case "USER-DEFINED":
			c.TypeName = udt
		case "ARRAY":
			c.TypeName = strings.TrimPrefix(udt, "_") + "[]"
		}
		c.Type = TypeCodeOf(c.TypeName)
		c.Size = prec.Int64
		if length.Valid {
			c.Size = length.Int64
		}
		c.Scale = scale.Int64
		c.Nullable = nullable == "YES"
		columns = append(columns, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: query columns of %s: %w", t, err)
	}
	return columns, nil
}

// PrimaryKeys implements MetaData.
func (p *Postgres) PrimaryKeys(ctx context.Context, t TableRef) ([]KeyColumn, error) {
	keys, err := scanKeys(ctx, p, pgPrimaryKeysQuery, t)
	if err != nil {
		return nil, fmt.Errorf("postgres: query primary key of %s: %w", t, err)
	}
	return keys, nil
}

// ForeignKeys implements MetaData.
func (p *Postgres) ForeignKeys(ctx context.Context, t TableRef) ([]ForeignKeyColumn, error) {
	fks, err := scanForeignKeys(ctx, p, pgForeignKeysQuery, t)
	if err != nil {
		return nil, fmt.Errorf("postgres: query foreign keys of %s: %w", t, err)
	}
	return fks, nil
}

// scanKeys reads (constraint, column, seq) rows.
func scanKeys(ctx context.Context, q dialect.Querier, query string, t TableRef) ([]KeyColumn, error) {
	var keys []KeyColumn
	err := sql.ScanEach(ctx, q, query, []any{t.Schema, t.Name}, func(s sql.ColumnScanner) error {
		var k KeyColumn
		if err := s.Scan(&k.Constraint, &k.Column, &k.Seq); err != nil {
			return err
		}
		keys = append(keys, k)
		return nil
	})
	return keys, err
}

// scanForeignKeys reads (constraint, column, ref schema, ref table, ref column, seq) rows.
func scanForeignKeys(ctx context.Context, q dialect.Querier, query string, t TableRef) ([]ForeignKeyColumn, error) {
	var fks []ForeignKeyColumn
	err := sql.ScanEach(ctx, q, query, []any{t.Schema, t.Name}, func(s sql.ColumnScanner) error {
		var (
			fk                   ForeignKeyColumn
			refSchema, refColumn sql.NullString
		)
		if err := s.Scan(&fk.Constraint, &fk.Column, &refSchema, &fk.RefTable, &refColumn, &fk.Seq); err != nil {
			return err
		}
		fk.RefSchema, fk.RefColumn = refSchema.String, refColumn.String
		fks = append(fks, fk)
		return nil
	})
	return fks, err
}

var _ MetaData = (*Postgres)(nil)
