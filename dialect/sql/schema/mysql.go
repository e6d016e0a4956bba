package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql"
)

// MySQL reads catalog metadata from the MySQL INFORMATION_SCHEMA. When no
// schema pattern is given, only the current database is enumerated.
type MySQL struct {
	dialect.Querier
}

// NewMySQL returns a MySQL catalog reader.
func NewMySQL(q dialect.Querier) *MySQL {
	return &MySQL{Querier: q}
}

const (
	myTablesQuery = "SELECT `TABLE_SCHEMA`, `TABLE_NAME` FROM `INFORMATION_SCHEMA`.`TABLES` " +
		"WHERE `TABLE_SCHEMA` LIKE ? AND `TABLE_NAME` LIKE ? ORDER BY `TABLE_SCHEMA`, `TABLE_NAME`"
	myCurrentTablesQuery = "SELECT `TABLE_SCHEMA`, `TABLE_NAME` FROM `INFORMATION_SCHEMA`.`TABLES` " +
		"WHERE `TABLE_SCHEMA` = DATABASE() AND `TABLE_NAME` LIKE ? ORDER BY `TABLE_NAME`"
	myColumnsQuery = "SELECT `COLUMN_NAME`, `DATA_TYPE`, `COLUMN_TYPE`, `CHARACTER_MAXIMUM_LENGTH`, `NUMERIC_PRECISION`, `NUMERIC_SCALE`, `IS_NULLABLE`, `ORDINAL_POSITION` " +
		"FROM `INFORMATION_SCHEMA`.`COLUMNS` WHERE `TABLE_SCHEMA` = ? AND `TABLE_NAME` = ? ORDER BY `ORDINAL_POSITION`"
	myPrimaryKeysQuery = "SELECT `CONSTRAINT_NAME`, `COLUMN_NAME`, `ORDINAL_POSITION` FROM `INFORMATION_SCHEMA`.`KEY_COLUMN_USAGE` " +
		"WHERE `TABLE_SCHEMA` = ? AND `TABLE_NAME` = ? AND `CONSTRAINT_NAME` = 'PRIMARY' ORDER BY `ORDINAL_POSITION`"
	myForeignKeysQuery = "SELECT `CONSTRAINT_NAME`, `COLUMN_NAME`, `REFERENCED_TABLE_SCHEMA`, `REFERENCED_TABLE_NAME`, `REFERENCED_COLUMN_NAME`, `ORDINAL_POSITION` " +
		"FROM `INFORMATION_SCHEMA`.`KEY_COLUMN_USAGE` WHERE `TABLE_SCHEMA` = ? AND `TABLE_NAME` = ? AND `REFERENCED_TABLE_NAME` IS NOT NULL " +
		"ORDER BY `CONSTRAINT_NAME`, `ORDINAL_POSITION`"
)

// Tables implements MetaData.
func (m *MySQL) Tables(ctx context.Context, schemaPattern, tablePattern string) ([]TableRef, error) {
	query, args := myTablesQuery, []any{orAll(schemaPattern), orAll(tablePattern)}
	if schemaPattern == "" {
		query, args = myCurrentTablesQuery, []any{orAll(tablePattern)}
	}
	var tables []TableRef
	err := sql.ScanEach(ctx, m, query, args, func(s sql.ColumnScanner) error {
		var t TableRef
		if err := s.Scan(&t.Schema, &t.Name); err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mysql: query tables: %w", err)
	}
	return tables, nil
}

// Columns implements MetaData.
func (m *MySQL) Columns(ctx context.Context, t TableRef) ([]Column, error) {
	var columns []Column
	err := sql.ScanEach(ctx, m, myColumnsQuery, []any{t.Schema, t.Name}, func(s sql.ColumnScanner) error {
		var (
			c                           Column
			dataType, colType, nullable string
			length, prec, scale         sql.NullInt64
		)
		if err := s.Scan(&c.Name, &dataType, &colType, &length, &prec, &scale, &nullable, &c.Position); err != nil {
			return err
		}
		c.TypeName = strings.ToUpper(dataType)
		c.Type = TypeCodeOf(dataType)
		c.Size = prec.Int64
		if length.Valid {
			c.Size = length.Int64
		}
		c.Scale = scale.Int64
		c.Nullable = nullable == "YES"
		// tinyint(1) is the conventional boolean column.
		if base, size, _ := ParseTypeName(colType); base == "tinyint" && size == 1 {
			c.Type, c.Size = TypeBit, 1
		}
		columns = append(columns, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mysql: query columns of %s: %w", t, err)
	}
	return columns, nil
}

// PrimaryKeys implements MetaData.
func (m *MySQL) PrimaryKeys(ctx context.Context, t TableRef) ([]KeyColumn, error) {
	keys, err := scanKeys(ctx, m, myPrimaryKeysQuery, t)
	if err != nil {
		return nil, fmt.Errorf("mysql: query primary key of %s: %w", t, err)
	}
	return keys, nil
}

// ForeignKeys implements MetaData.
func (m *MySQL) ForeignKeys(ctx context.Context, t TableRef) ([]ForeignKeyColumn, error) {
	fks, err := scanForeignKeys(ctx, m, myForeignKeysQuery, t)
	if err != nil {
		return nil, fmt.Errorf("mysql: query foreign keys of %s: %w", t, err)
	}
	return fks, nil
}

var _ MetaData = (*MySQL)(nil)
