package schema

import (
	"context"
	"testing"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_Tables(t *testing.T) {
	md := NewSQLite(sql.OpenDB(dialect.SQLite, openSQLite(t, employeeSchema)))
	ctx := context.Background()

	tables, err := md.Tables(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, []TableRef{{Name: "date_test"}, {Name: "date_time_test"}, {Name: "employee"}, {Name: "survey"}}, tables)

	tables, err = md.Tables(ctx, "", "date%")
	require.NoError(t, err)
	assert.Equal(t, []TableRef{{Name: "date_test"}, {Name: "date_time_test"}}, tables)

	tables, err = md.Tables(ctx, "main", "emp%")
	require.NoError(t, err)
	assert.Equal(t, []TableRef{{Name: "employee"}}, tables)

	tables, err = md.Tables(ctx, "public", "")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestSQLite_Columns(t *testing.T) {
	md := NewSQLite(sql.OpenDB(dialect.SQLite, openSQLite(t, employeeSchema)))
	columns, err := md.Columns(context.Background(), TableRef{Name: "employee"})
	require.NoError(t, err)
	require.Len(t, columns, 8)

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
		assert.Equal(t, i+1, c.Position)
	}
	assert.Equal(t, []string{"id", "firstname", "lastname", "salary", "datefield", "timefield", "superior_id", "survey_id"}, names)

	assert.Equal(t, TypeInteger, columns[0].Type)
	assert.False(t, columns[0].Nullable, "primary key columns are not nullable")
	assert.Equal(t, Column{Name: "firstname", Type: TypeVarChar, TypeName: "VARCHAR(50)", Size: 50, Nullable: true, Position: 2}, columns[1])
	assert.False(t, columns[2].Nullable)
	assert.Equal(t, Column{Name: "salary", Type: TypeDecimal, TypeName: "DECIMAL(10, 2)", Size: 10, Scale: 2, Nullable: true, Position: 4}, columns[3])
	assert.Equal(t, TypeDate, columns[4].Type)
	assert.Equal(t, TypeTime, columns[5].Type)

	columns, err = md.Columns(context.Background(), TableRef{Name: "date_time_test"})
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, TypeTimestamp, columns[0].Type)
}

func TestSQLite_Keys(t *testing.T) {
	md := NewSQLite(sql.OpenDB(dialect.SQLite, openSQLite(t, employeeSchema+`
CREATE TABLE line (
	order_no INT,
	line_no INT,
	note TEXT,
	PRIMARY KEY (order_no, line_no)
);
CREATE TABLE line_note (
	id INT PRIMARY KEY,
	order_no INT,
	line_no INT,
	FOREIGN KEY (order_no, line_no) REFERENCES line (order_no, line_no)
);
`)))
	ctx := context.Background()

	keys, err := md.PrimaryKeys(ctx, TableRef{Name: "employee"})
	require.NoError(t, err)
	assert.Equal(t, []KeyColumn{{Constraint: "employee_pkey", Column: "id", Seq: 1}}, keys)

	keys, err = md.PrimaryKeys(ctx, TableRef{Name: "line"})
	require.NoError(t, err)
	assert.Equal(t, []KeyColumn{
		{Constraint: "line_pkey", Column: "order_no", Seq: 1},
		{Constraint: "line_pkey", Column: "line_no", Seq: 2},
	}, keys)

	keys, err = md.PrimaryKeys(ctx, TableRef{Name: "date_test"})
	require.NoError(t, err)
	assert.Empty(t, keys)

	fks, err := md.ForeignKeys(ctx, TableRef{Name: "employee"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ForeignKeyColumn{
		{Constraint: "employee_survey_id_fkey", Column: "survey_id", RefTable: "survey", RefColumn: "id", Seq: 1},
		{Constraint: "employee_superior_id_fkey", Column: "superior_id", RefTable: "employee", Seq: 1},
	}, fks)

	fks, err = md.ForeignKeys(ctx, TableRef{Name: "line_note"})
	require.NoError(t, err)
	assert.Equal(t, []ForeignKeyColumn{
		{Constraint: "line_note_order_no_line_no_fkey", Column: "order_no", RefTable: "line", RefColumn: "order_no", Seq: 1},
		{Constraint: "line_note_order_no_line_no_fkey", Column: "line_no", RefTable: "line", RefColumn: "line_no", Seq: 2},
	}, fks)
}
