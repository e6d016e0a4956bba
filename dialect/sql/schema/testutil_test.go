package schema

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func escape(query string) string {
	return regexp.QuoteMeta(query)
}

// employeeSchema is the catalog used across the reader tests.
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

// openSQLite returns an in-memory database seeded with the given DDL.
func openSQLite(t *testing.T, ddl string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.ExecContext(context.Background(), ddl)
	require.NoError(t, err)
	return db
}
