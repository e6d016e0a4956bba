package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Tables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	md := NewPostgres(sql.OpenDB(dialect.Postgres, db))

	mock.ExpectQuery(escape(pgTablesQuery)).
		WithArgs("%", "%").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}).
			AddRow("public", "employee").
			AddRow("public", "survey"))
	tables, err := md.Tables(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, []TableRef{{Schema: "public", Name: "employee"}, {Schema: "public", Name: "survey"}}, tables)

	mock.ExpectQuery(escape(pgTablesQuery)).
		WithArgs("app%", "emp%").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}))
	tables, err = md.Tables(context.Background(), "app%", "emp%")
	require.NoError(t, err)
	assert.Empty(t, tables)

	mock.ExpectQuery(escape(pgTablesQuery)).WillReturnError(errors.New("connection refused"))
	_, err = md.Tables(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: query tables")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Columns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	md := NewPostgres(sql.OpenDB(dialect.Postgres, db))

	mock.ExpectQuery(escape(pgColumnsQuery)).
		WithArgs("public", "employee").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "udt_name", "character_maximum_length", "numeric_precision", "numeric_scale", "is_nullable", "ordinal_position"}).
			AddRow("id", "integer", "int4", nil, 32, 0, "NO", 1).
			AddRow("firstname", "character varying", "varchar", 50, nil, nil, "YES", 2).
			AddRow("salary", "numeric", "numeric", nil, 10, 2, "YES", 3).
			AddRow("external_id", "uuid", "uuid", nil, nil, nil, "YES", 4).
			AddRow("mood", "USER-DEFINED", "mood", nil, nil, nil, "YES", 5).
			AddRow("tags", "ARRAY", "_text", nil, nil, nil, "YES", 6))
	columns, err := md.Columns(context.Background(), TableRef{Schema: "public", Name: "employee"})
	require.NoError(t, err)
	require.Len(t, columns, 6)
	assert.Equal(t, Column{Name: "id", Type: TypeInteger, TypeName: "integer", Size: 32, Position: 1}, columns[0])
	assert.Equal(t, Column{Name: "firstname", Type: TypeVarChar, TypeName: "character varying", Size: 50, Nullable: true, Position: 2}, columns[1])
	assert.Equal(t, Column{Name: "salary", Type: TypeNumeric, TypeName: "numeric", Size: 10, Scale: 2, Nullable: true, Position: 3}, columns[2])
	assert.Equal(t, TypeOther, columns[3].Type)
	assert.Equal(t, "uuid", columns[3].TypeName)
	assert.Equal(t, "mood", columns[4].TypeName)
	assert.Equal(t, TypeOther, columns[4].Type)
	assert.Equal(t, "text[]", columns[5].TypeName)
	assert.Equal(t, TypeArray, columns[5].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Keys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	md := NewPostgres(sql.OpenDB(dialect.Postgres, db))
	ref := TableRef{Schema: "public", Name: "employee"}

	mock.ExpectQuery(escape(pgPrimaryKeysQuery)).
		WithArgs("public", "employee").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "ordinal_position"}).
			AddRow("pk_employee", "id", 1))
	keys, err := md.PrimaryKeys(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []KeyColumn{{Constraint: "pk_employee", Column: "id", Seq: 1}}, keys)

	mock.ExpectQuery(escape(pgForeignKeysQuery)).
		WithArgs("public", "employee").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "table_schema", "table_name", "column_name", "ordinal_position"}).
			AddRow("fk_superior", "superior_id", "public", "employee", "id", 1).
			AddRow("fk_survey", "survey_id", "public", "survey", "id", 1))
	fks, err := md.ForeignKeys(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []ForeignKeyColumn{
		{Constraint: "fk_superior", Column: "superior_id", RefSchema: "public", RefTable: "employee", RefColumn: "id", Seq: 1},
		{Constraint: "fk_survey", Column: "survey_id", RefSchema: "public", RefTable: "survey", RefColumn: "id", Seq: 1},
	}, fks)

	mock.ExpectQuery(escape(pgForeignKeysQuery)).WillReturnError(errors.New("permission denied"))
	_, err = md.ForeignKeys(context.Background(), ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public.employee")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	for name, want := range map[string]any{
		dialect.Postgres: &Postgres{},
		dialect.MySQL:    &MySQL{},
		dialect.SQLite:   &SQLite{},
	} {
		md, err := Open(sql.OpenDB(name, db))
		require.NoError(t, err)
		assert.IsType(t, want, md)
	}
	_, err = Open(sql.OpenDB("oracle", db))
	require.Error(t, err)
}
