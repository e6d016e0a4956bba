package load

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/syssam/qgen/dialect"
	"github.com/syssam/qgen/dialect/sql/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetaData serves a fixed catalog, reporting rows out of order the
// way some drivers do.
type fakeMetaData struct {
	tables  []schema.TableRef
	columns map[string][]schema.Column
	keys    map[string][]schema.KeyColumn
	fks     map[string][]schema.ForeignKeyColumn
	failOn  string
}

func (f *fakeMetaData) Tables(_ context.Context, sp, tp string) ([]schema.TableRef, error) {
	if f.failOn == "tables" {
		return nil, errors.New("boom")
	}
	var refs []schema.TableRef
	for _, t := range f.tables {
		if schema.Like(sp, t.Schema) && schema.Like(tp, t.Name) {
			refs = append(refs, t)
		}
	}
	return refs, nil
}

func (f *fakeMetaData) Columns(_ context.Context, t schema.TableRef) ([]schema.Column, error) {
	if f.failOn == "columns" {
		return nil, errors.New("boom")
	}
	return f.columns[t.Name], nil
}

func (f *fakeMetaData) PrimaryKeys(_ context.Context, t schema.TableRef) ([]schema.KeyColumn, error) {
	return f.keys[t.Name], nil
}

func (f *fakeMetaData) ForeignKeys(_ context.Context, t schema.TableRef) ([]schema.ForeignKeyColumn, error) {
	if f.failOn == "foreign keys" {
		return nil, errors.New("boom")
	}
	return f.fks[t.Name], nil
}

func newFake() *fakeMetaData {
	return &fakeMetaData{
		tables: []schema.TableRef{{Schema: "app", Name: "orders"}, {Schema: "app", Name: "customer"}},
		columns: map[string][]schema.Column{
			"orders": {
				{Name: "customer_no", Type: schema.TypeInteger, Position: 3},
				{Name: "tenant_id", Type: schema.TypeInteger, Position: 1},
				{Name: "order_no", Type: schema.TypeInteger, Position: 2},
			},
			"customer": {
				{Name: "tenant_id", Type: schema.TypeInteger, Position: 1},
				{Name: "no", Type: schema.TypeInteger, Position: 2},
			},
		},
		keys: map[string][]schema.KeyColumn{
			"orders": {
				{Constraint: "orders_pkey", Column: "order_no", Seq: 2},
				{Constraint: "orders_pkey", Column: "tenant_id", Seq: 1},
			},
		},
		fks: map[string][]schema.ForeignKeyColumn{
			"orders": {
				{Constraint: "fk_customer", Column: "customer_no", RefSchema: "app", RefTable: "customer", RefColumn: "no", Seq: 2},
				{Constraint: "fk_customer", Column: "tenant_id", RefSchema: "app", RefTable: "customer", RefColumn: "tenant_id", Seq: 1},
			},
		},
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), newFake(), "", "")
	require.NoError(t, err)
	require.Len(t, c.Tables, 2)

	orders := c.Tables[0]
	assert.Equal(t, "orders", orders.Name)
	assert.Equal(t, "app", orders.Schema)
	var names []string
	for _, col := range orders.Columns {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"tenant_id", "order_no", "customer_no"}, names)
	assert.Equal(t, "tenant_id", orders.PrimaryKey[0].Column)
	assert.Equal(t, "order_no", orders.PrimaryKey[1].Column)
	assert.Equal(t, "orders_pkey", orders.PrimaryKeyName())

	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, &ForeignKey{
		Name:       "fk_customer",
		Columns:    []string{"tenant_id", "customer_no"},
		RefSchema:  "app",
		RefTable:   "customer",
		RefColumns: []string{"tenant_id", "no"},
	}, orders.ForeignKeys[0])

	tb, ok := c.Table("app", "customer")
	require.True(t, ok)
	assert.Empty(t, tb.PrimaryKeyName())
	_, ok = c.Table("other", "customer")
	assert.False(t, ok)
	assert.Equal(t, "catalog(2 tables: app.orders, app.customer)", c.String())

	c, err = Load(context.Background(), newFake(), "", "cust%")
	require.NoError(t, err)
	require.Len(t, c.Tables, 1)
	assert.Equal(t, "cust%", c.TablePattern)
}

func TestLoad_Errors(t *testing.T) {
	for _, op := range []string{"tables", "columns", "foreign keys"} {
		t.Run(op, func(t *testing.T) {
			md := newFake()
			md.failOn = op
			_, err := Load(context.Background(), md, "", "")
			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, op, lerr.Op)
			assert.Contains(t, err.Error(), "boom")
			if op != "tables" {
				assert.Equal(t, "app.orders", lerr.Table)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, newFake(), "", "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestGroupForeignKeys(t *testing.T) {
	fks := GroupForeignKeys([]schema.ForeignKeyColumn{
		{Constraint: "fk_a", Column: "a", RefTable: "t1", RefColumn: "id", Seq: 1},
		{Column: "b", RefTable: "t2", Seq: 1},
		{Constraint: "fk_c", Column: "c2", RefTable: "t3", Seq: 2},
		{Constraint: "fk_c", Column: "c1", RefTable: "t3", Seq: 1},
	})
	require.Len(t, fks, 3)
	assert.Equal(t, []string{"id"}, fks[0].RefColumns)
	assert.Empty(t, fks[1].Name)
	assert.Nil(t, fks[1].RefColumns, "implicit references target the primary key")
	assert.Equal(t, []string{"c1", "c2"}, fks[2].Columns)
	assert.Nil(t, fks[2].RefColumns)
}

func TestSnapshot(t *testing.T) {
	c, err := Load(context.Background(), newFake(), "", "")
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"catalog.json", "catalog.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			require.NoError(t, c.WriteFile(path))
			got, err := ReadFile(path)
			require.NoError(t, err)

			// Loading the snapshot back through the protocol yields the same catalog.
			again, err := Load(context.Background(), got.MetaData(), "", "")
			require.NoError(t, err)
			assert.Equal(t, c.Tables, again.Tables)
		})
	}

	md := c.MetaData()
	refs, err := md.Tables(context.Background(), "app", "ord%")
	require.NoError(t, err)
	assert.Equal(t, []schema.TableRef{{Schema: "app", Name: "orders"}}, refs)
	refs, err = md.Tables(context.Background(), "APP", "ORD%")
	require.NoError(t, err)
	assert.Empty(t, refs, "patterns are case-sensitive without a dialect")
	_, err = md.Columns(context.Background(), schema.TableRef{Name: "missing"})
	require.Error(t, err)

	t.Run("Dialect", func(t *testing.T) {
		lite := *c
		lite.Dialect = dialect.SQLite
		path := filepath.Join(dir, "sqlite.json")
		require.NoError(t, lite.WriteFile(path))
		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, dialect.SQLite, got.Dialect)
		refs, err := got.MetaData().Tables(context.Background(), "APP", "ORD%")
		require.NoError(t, err)
		assert.Equal(t, []schema.TableRef{{Schema: "app", Name: "orders"}}, refs)
	})

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	_, err = Unmarshal([]byte("{"), FormatJSON)
	require.Error(t, err)
	_, err = c.Marshal("xml")
	require.Error(t, err)
	assert.Equal(t, FormatMsgpack, FormatOf("a.MP"))
	assert.Equal(t, FormatJSON, FormatOf("a"))
}
