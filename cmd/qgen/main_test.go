package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE survey (id INTEGER PRIMARY KEY, name VARCHAR(30));
CREATE TABLE employee (
	id INTEGER PRIMARY KEY,
	firstname VARCHAR(50),
	survey_id INT REFERENCES survey (id)
);
`

// testDB creates a SQLite database file seeded with the test schema.
func testDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(context.Background(), testSchema)
	require.NoError(t, err)
	return path
}

// execute runs the root command with the given arguments.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	env := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(env, nil, 0o644))
	cmd.SetArgs(append(args, "--env", env))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qmodel")
	stdout, err := execute(t, "export", "--driver", "sqlite", "--dsn", testDB(t), "--out", out, "--feature", "allpaths")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 types written to "+out)

	b, err := os.ReadFile(filepath.Join(out, "qemployee.go"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "package qmodel")
	assert.Contains(t, string(b), "Paths() []qgen.Path")
	assert.FileExists(t, filepath.Join(out, "qsurvey.go"))
}

func TestExportCmd_Strict(t *testing.T) {
	db := testDB(t)
	out := filepath.Join(t.TempDir(), "qmodel")
	stdout, err := execute(t, "export", "--driver", "sqlite", "--dsn", db, "--out", out, "--tables", "employee")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 types written")
	assert.Contains(t, stdout, "(1 diagnostics)")
	assert.Contains(t, stdout, "unresolved foreign key")

	_, err = execute(t, "export", "--driver", "sqlite", "--dsn", db, "--out", out, "--tables", "employee", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagnostics reported")
}

func TestSnapshotCmd(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"catalog.json", "catalog.msgpack"} {
		t.Run(name, func(t *testing.T) {
			snap := filepath.Join(dir, name)
			stdout, err := execute(t, "snapshot", "--driver", "sqlite", "--dsn", testDB(t), "-o", snap)
			require.NoError(t, err)
			assert.Contains(t, stdout, "2 tables written to "+snap)

			out := filepath.Join(dir, "qmodel-"+name)
			_, err = execute(t, "export", "--snapshot", snap, "--out", out, "--package", "github.com/acme/app/qmodel", "--tables", "survey")
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(out, "qsurvey.go"))
			assert.NoFileExists(t, filepath.Join(out, "qemployee.go"))
		})
	}
	_, err := execute(t, "snapshot", "--driver", "sqlite")
	assert.EqualError(t, err, "--driver and --dsn are required")
}

func TestExportCmd_Config(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QGEN_TEST_DB", testDB(t))
	config := filepath.Join(dir, "qgen.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
targets:
  - name: full
    driver: sqlite
    dsn: ${QGEN_TEST_DB}
    output: `+filepath.Join(dir, "full")+`
  - name: surveys
    driver: sqlite
    dsn: ${QGEN_TEST_DB}
    tables: survey
    prefix: ""
    output: `+filepath.Join(dir, "surveys")+`
`), 0o644))

	stdout, err := execute(t, "export", "--config", config, "--jobs", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "full: 2 types written")
	assert.Contains(t, stdout, "surveys: 1 types written")
	assert.FileExists(t, filepath.Join(dir, "full", "qemployee.go"))
	assert.FileExists(t, filepath.Join(dir, "surveys", "survey.go"))

	_, err = execute(t, "export", "--config", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvFile(t *testing.T) {
	env := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(env, []byte("QGEN_ENV_FILE_TEST=loaded\n"), 0o644))
	t.Setenv("QGEN_ENV_FILE_TEST", "")
	require.NoError(t, os.Unsetenv("QGEN_ENV_FILE_TEST"))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"snapshot", "--env", env})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err, "snapshot without flags fails after the env file is loaded")
	assert.Equal(t, "loaded", os.Getenv("QGEN_ENV_FILE_TEST"))

	cmd = newRootCmd()
	cmd.SetArgs([]string{"snapshot", "--env", filepath.Join(t.TempDir(), "missing.env")})
	err = cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}
