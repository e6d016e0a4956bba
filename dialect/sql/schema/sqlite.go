package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql"
)

// SQLite reads catalog metadata from sqlite_master and the table-valued
// pragma functions. SQLite has a single unnamed schema per connection, so
// table references carry an empty schema and a non-empty schema pattern
// only matches "main".
//
// SQLite does not report constraint names. Primary keys are named
// "<table>_pkey" and foreign keys "<table>_<columns>_fkey".
type SQLite struct {
	dialect.Querier
}

// NewSQLite returns a SQLite catalog reader.
func NewSQLite(q dialect.Querier) *SQLite {
	return &SQLite{Querier: q}
}

const (
	sqliteTablesQuery = "SELECT `name` FROM `sqlite_master` WHERE `type` IN ('table', 'view') " +
		"AND `name` NOT LIKE 'sqlite\\_%' ESCAPE '\\' AND `name` LIKE ? ESCAPE '\\' ORDER BY `name`"
	sqliteColumnsQuery     = "SELECT `cid`, `name`, `type`, `notnull`, `pk` FROM pragma_table_info(?) ORDER BY `cid`"
	sqlitePrimaryKeysQuery = "SELECT `name`, `pk` FROM pragma_table_info(?) WHERE `pk` > 0 ORDER BY `pk`"
	sqliteForeignKeysQuery = "SELECT `id`, `seq`, `table`, `from`, `to` FROM pragma_foreign_key_list(?) ORDER BY `id`, `seq`"
)

// Tables implements MetaData.
func (s *SQLite) Tables(ctx context.Context, schemaPattern, tablePattern string) ([]TableRef, error) {
	if !LikeFold(schemaPattern, "main") {
		return nil, nil
	}
	var tables []TableRef
	err := sql.ScanEach(ctx, s, sqliteTablesQuery, []any{orAll(tablePattern)}, func(r sql.ColumnScanner) error {
		var t TableRef
		if err := r.Scan(&t.Name); err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: query tables: %w", err)
	}
	return tables, nil
}

// Columns implements MetaData.
func (s *SQLite) Columns(ctx context.Context, t TableRef) ([]Column, error) {
	var columns []Column
	err := sql.ScanEach(ctx, s, sqliteColumnsQuery, []any{t.Name}, func(r sql.ColumnScanner) error {
		var (
			c           Column
			cid, pk     int
			notnull     bool
			declaration string
		)
		if err := r.Scan(&cid, &c.Name, &declaration, &notnull, &pk); err != nil {
			return err
		}
		c.Position = cid + 1
		c.TypeName = strings.ToUpper(declaration)
		c.Type = sqliteTypeCode(declaration)
		_, c.Size, c.Scale = ParseTypeName(declaration)
		c.Nullable = !notnull && pk == 0
		columns = append(columns, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: query columns of %s: %w", t, err)
	}
	return columns, nil
}

// PrimaryKeys implements MetaData.
func (s *SQLite) PrimaryKeys(ctx context.Context, t TableRef) ([]KeyColumn, error) {
	var keys []KeyColumn
	err := sql.ScanEach(ctx, s, sqlitePrimaryKeysQuery, []any{t.Name}, func(r sql.ColumnScanner) error {
		k := KeyColumn{Constraint: t.Name + "_pkey"}
		if err := r.Scan(&k.Column, &k.Seq); err != nil {
			return err
		}
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: query primary key of %s: %w", t, err)
	}
	return keys, nil
}

// ForeignKeys implements MetaData.
func (s *SQLite) ForeignKeys(ctx context.Context, t TableRef) ([]ForeignKeyColumn, error) {
	var (
		fks []ForeignKeyColumn
		ids []int
	)
	err := sql.ScanEach(ctx, s, sqliteForeignKeysQuery, []any{t.Name}, func(r sql.ColumnScanner) error {
		var (
			fk      ForeignKeyColumn
			id, seq int
			to      sql.NullString
		)
		if err := r.Scan(&id, &seq, &fk.RefTable, &fk.Column, &to); err != nil {
			return err
		}
		fk.Seq, fk.RefColumn = seq+1, to.String
		fks = append(fks, fk)
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: query foreign keys of %s: %w", t, err)
	}
	// Name each constraint after its columns.
	for start := 0; start < len(fks); {
		end := start + 1
		for end < len(fks) && ids[end] == ids[start] {
			end++
		}
		columns := make([]string, 0, end-start)
		for _, fk := range fks[start:end] {
			columns = append(columns, fk.Column)
		}
		name := t.Name + "_" + strings.Join(columns, "_") + "_fkey"
		for i := start; i < end; i++ {
			fks[i].Constraint = name
		}
		start = end
	}
	return fks, nil
}

// sqliteTypeCode resolves a declared column type, falling back to the
// SQLite type affinity rules for names that are not standard.
func sqliteTypeCode(declaration string) TypeCode {
	base, _, _ := ParseTypeName(declaration)
	if c := TypeCodeOf(base); c != TypeOther || slices.Contains([]string{"json", "jsonb", "uuid"}, base) {
		return c
	}
	switch {
	case base == "":
		return TypeBlob
	case strings.Contains(base, "int"):
		return TypeInteger
	case strings.Contains(base, "char"), strings.Contains(base, "clob"), strings.Contains(base, "text"):
		return TypeVarChar
	case strings.Contains(base, "blob"):
		return TypeBlob
	case strings.Contains(base, "real"), strings.Contains(base, "floa"), strings.Contains(base, "doub"):
		return TypeDouble
	default:
		return TypeNumeric
	}
}

var _ MetaData = (*SQLite)(nil)
