package sql

import (
	"context"
	stdsql "database/sql"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/qgen/compiler/gen"
	"github.com/syssam/qgen/dialect"
	dsql "github.com/syssam/qgen/dialect/sql"
	"github.com/syssam/qgen/dialect/sql/schema"

	_ "modernc.org/sqlite"
)

const employeeSchema = `
CREATE TABLE survey (
	id INT,
	name VARCHAR(30),
	CONSTRAINT PK_survey PRIMARY KEY (id)
);
CREATE TABLE date_test (d DATE);
CREATE TABLE date_time_test (dt DATETIME);
CREATE TABLE employee (
	id INT,
	firstname VARCHAR(50),
	lastname VARCHAR(50) NOT NULL,
	salary DECIMAL(10, 2),
	datefield DATE,
	timefield TIME,
	superior_id INT,
	survey_id INT,
	CONSTRAINT PK_employee PRIMARY KEY (id),
	CONSTRAINT FK_survey FOREIGN KEY (survey_id) REFERENCES survey (id),
	CONSTRAINT FK_superior FOREIGN KEY (superior_id) REFERENCES employee
);
`

// openSQLite returns the catalog reader of an in-memory database seeded
// with the employee schema.
func openSQLite(t *testing.T) schema.MetaData {
	t.Helper()
	db, err := stdsql.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.ExecContext(context.Background(), employeeSchema)
	require.NoError(t, err)
	return schema.NewSQLite(dsql.OpenDB(dialect.SQLite, db))
}

// testOptions returns the options shared by the tests, writing to sink.
func testOptions(sink gen.Sink, opts ...gen.Option) []gen.Option {
	return append([]gen.Option{
		gen.WithPackage("github.com/acme/app/qmodel"),
		gen.WithSink(sink),
		gen.WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)
}

// fileOf returns the content of a generated file.
func fileOf(t *testing.T, sink *gen.MemSink, name string) string {
	t.Helper()
	b, ok := sink.File(name)
	require.Truef(t, ok, "file %s was not generated", name)
	return string(b)
}

// fieldNames parses src and returns the field names of the named struct,
// with an empty name for embedded fields.
func fieldNames(t *testing.T, src, name string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ParseComments)
	require.NoError(t, err)
	var names []string
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != name {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		require.True(t, ok)
		for _, fd := range st.Fields.List {
			if len(fd.Names) == 0 {
				names = append(names, "")
			}
			for _, id := range fd.Names {
				names = append(names, id.Name)
			}
		}
		return false
	})
	require.NotNilf(t, names, "struct %s not found", name)
	return names
}

// squash collapses runs of blanks so assertions ignore gofmt alignment.
func squash(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' }), " ")
}
