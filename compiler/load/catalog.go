// Package load reads the catalog metadata of a database into a Catalog
// snapshot that the generator builds its model from.
package load

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/qgen/dialect/sql/schema"
)

// Catalog is a snapshot of the catalog metadata read for one export run.
type Catalog struct {
	// Dialect is the dialect of the database the catalog was read from. It
	// selects the LIKE semantics applied when the snapshot is filtered.
	Dialect       string   `json:"dialect,omitempty" msgpack:"dialect,omitempty"`
	SchemaPattern string   `json:"schema_pattern,omitempty" msgpack:"schema_pattern,omitempty"`
	TablePattern  string   `json:"table_pattern,omitempty" msgpack:"table_pattern,omitempty"`
	Tables        []*Table `json:"tables" msgpack:"tables"`
}

// Table is the metadata of one table.
type Table struct {
	Schema      string             `json:"schema,omitempty" msgpack:"schema,omitempty"`
	Name        string             `json:"name" msgpack:"name"`
	Columns     []schema.Column    `json:"columns,omitempty" msgpack:"columns,omitempty"`
	PrimaryKey  []schema.KeyColumn `json:"primary_key,omitempty" msgpack:"primary_key,omitempty"`
	ForeignKeys []*ForeignKey      `json:"foreign_keys,omitempty" msgpack:"foreign_keys,omitempty"`
}

// Ref returns the catalog reference of the table.
func (t *Table) Ref() schema.TableRef {
	return schema.TableRef{Schema: t.Schema, Name: t.Name}
}

// PrimaryKeyName returns the primary key constraint name, if reported.
func (t *Table) PrimaryKeyName() string {
	for _, k := range t.PrimaryKey {
		if k.Constraint != "" {
			return k.Constraint
		}
	}
	return ""
}

// ForeignKey is an imported foreign key with its columns grouped in key
// sequence order. An empty entry in RefColumns means the column references
// the primary key column of RefTable at the same position.
type ForeignKey struct {
	Name       string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Columns    []string `json:"columns" msgpack:"columns"`
	RefSchema  string   `json:"ref_schema,omitempty" msgpack:"ref_schema,omitempty"`
	RefTable   string   `json:"ref_table" msgpack:"ref_table"`
	RefColumns []string `json:"ref_columns,omitempty" msgpack:"ref_columns,omitempty"`
}

// Error is returned when reading the catalog fails.
type Error struct {
	Op    string // tables, columns, primary keys or foreign keys
	Table string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("load: read %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("load: read %s of %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads the metadata of every table matching the given patterns.
// Columns keep catalog order, primary keys are ordered by key sequence and
// foreign keys are grouped by constraint.
func Load(ctx context.Context, md schema.MetaData, schemaPattern, tablePattern string) (*Catalog, error) {
	refs, err := md.Tables(ctx, schemaPattern, tablePattern)
	if err != nil {
		return nil, &Error{Op: "tables", Err: err}
	}
	c := &Catalog{SchemaPattern: schemaPattern, TablePattern: tablePattern}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := loadTable(ctx, md, ref)
		if err != nil {
			return nil, err
		}
		c.Tables = append(c.Tables, t)
	}
	return c, nil
}

func loadTable(ctx context.Context, md schema.MetaData, ref schema.TableRef) (*Table, error) {
	t := &Table{Schema: ref.Schema, Name: ref.Name}
	columns, err := md.Columns(ctx, ref)
	if err != nil {
		return nil, &Error{Op: "columns", Table: ref.String(), Err: err}
	}
	slices.SortStableFunc(columns, func(a, b schema.Column) int {
		return cmp.Compare(a.Position, b.Position)
	})
	t.Columns = columns
	keys, err := md.PrimaryKeys(ctx, ref)
	if err != nil {
		return nil, &Error{Op: "primary keys", Table: ref.String(), Err: err}
	}
	slices.SortStableFunc(keys, func(a, b schema.KeyColumn) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	t.PrimaryKey = keys
	fks, err := md.ForeignKeys(ctx, ref)
	if err != nil {
		return nil, &Error{Op: "foreign keys", Table: ref.String(), Err: err}
	}
	t.ForeignKeys = GroupForeignKeys(fks)
	return t, nil
}

// GroupForeignKeys groups foreign key columns by constraint, preserving
// the order in which constraints first appear. Columns without a
// constraint name are grouped by their referenced table.
func GroupForeignKeys(columns []schema.ForeignKeyColumn) []*ForeignKey {
	var (
		fks   []*ForeignKey
		seqs  [][]int
		index = make(map[string]int)
	)
	for _, c := range columns {
		key := c.Constraint
		if key == "" {
			key = "\x00" + c.RefSchema + "." + c.RefTable
		}
		i, ok := index[key]
		if !ok {
			i = len(fks)
			index[key] = i
			fks = append(fks, &ForeignKey{Name: c.Constraint, RefSchema: c.RefSchema, RefTable: c.RefTable})
			seqs = append(seqs, nil)
		}
		fks[i].Columns = append(fks[i].Columns, c.Column)
		fks[i].RefColumns = append(fks[i].RefColumns, c.RefColumn)
		seqs[i] = append(seqs[i], c.Seq)
	}
	for i, fk := range fks {
		sortBySeq(seqs[i], fk.Columns, fk.RefColumns)
		if !slices.ContainsFunc(fk.RefColumns, func(s string) bool { return s != "" }) {
			fk.RefColumns = nil
		}
	}
	return fks
}

// sortBySeq orders the parallel column slices by their key sequence.
func sortBySeq(seqs []int, columns, refs []string) {
	idx := make([]int, len(seqs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(seqs[a], seqs[b]) })
	c, r := slices.Clone(columns), slices.Clone(refs)
	for i, j := range idx {
		columns[i], refs[i] = c[j], r[j]
	}
}

// Table returns the table with the given schema and name.
func (c *Catalog) Table(schemaName, name string) (*Table, bool) {
	for _, t := range c.Tables {
		if t.Name == name && (schemaName == "" || t.Schema == schemaName) {
			return t, true
		}
	}
	return nil, false
}

// MetaData returns a reader serving the snapshot through the
// metadata-access protocol, so that an export can run offline.
func (c *Catalog) MetaData() schema.MetaData {
	return snapshot{c}
}

type snapshot struct{ c *Catalog }

// Tables implements schema.MetaData over the snapshot.
func (s snapshot) Tables(_ context.Context, schemaPattern, tablePattern string) ([]schema.TableRef, error) {
	var refs []schema.TableRef
	like := schema.Matcher(s.c.Dialect)
	for _, t := range s.c.Tables {
		if like(schemaPattern, t.Schema) && like(tablePattern, t.Name) {
			refs = append(refs, t.Ref())
		}
	}
	return refs, nil
}

func (s snapshot) lookup(ref schema.TableRef) (*Table, error) {
	t, ok := s.c.Table(ref.Schema, ref.Name)
	if !ok {
		return nil, fmt.Errorf("load: table %s is not in the snapshot", ref)
	}
	return t, nil
}

// Columns implements schema.MetaData over the snapshot.
func (s snapshot) Columns(_ context.Context, ref schema.TableRef) ([]schema.Column, error) {
	t, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.Columns), nil
}

// PrimaryKeys implements schema.MetaData over the snapshot.
func (s snapshot) PrimaryKeys(_ context.Context, ref schema.TableRef) ([]schema.KeyColumn, error) {
	t, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.PrimaryKey), nil
}

// ForeignKeys implements schema.MetaData over the snapshot.
func (s snapshot) ForeignKeys(_ context.Context, ref schema.TableRef) ([]schema.ForeignKeyColumn, error) {
	t, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}
	var columns []schema.ForeignKeyColumn
	for _, fk := range t.ForeignKeys {
		for i, name := range fk.Columns {
			col := schema.ForeignKeyColumn{
				Constraint: fk.Name,
				Column:     name,
				RefSchema:  fk.RefSchema,
				RefTable:   fk.RefTable,
				Seq:        i + 1,
			}
			if i < len(fk.RefColumns) {
				col.RefColumn = fk.RefColumns[i]
			}
			columns = append(columns, col)
		}
	}
	return columns, nil
}

// String returns a short description of the snapshot.
func (c *Catalog) String() string {
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.Ref().String()
	}
	return fmt.Sprintf("catalog(%d tables: %s)", len(c.Tables), strings.Join(names, ", "))
}

var _ schema.MetaData = snapshot{}
