package schema

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/qgen/dialect"
)

// Atlas adapts an Atlas inspector to the metadata-access protocol. The
// realm is inspected on first use and then served from memory. A failed
// inspection is not cached and is retried by the next call.
type Atlas struct {
	inspector schema.Inspector
	like      func(pattern, s string) bool
	mu        sync.Mutex
	realm     *schema.Realm
}

// NewAtlas returns an adapter over the given inspector. Patterns match
// case-sensitively.
func NewAtlas(inspector schema.Inspector) *Atlas {
	return &Atlas{inspector: inspector, like: Like}
}

// OpenAtlas opens the Atlas driver of the given dialect over db.
func OpenAtlas(name string, db schema.ExecQuerier) (*Atlas, error) {
	var (
		inspector schema.Inspector
		err       error
	)
	switch name {
	case dialect.Postgres:
		inspector, err = postgres.Open(db)
	case dialect.MySQL:
		inspector, err = mysql.Open(db)
	case dialect.SQLite:
		inspector, err = sqlite.Open(db)
	default:
		return nil, fmt.Errorf("schema: atlas: unsupported dialect %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("schema: atlas: open %s driver: %w", name, err)
	}
	a := NewAtlas(inspector)
	a.like = Matcher(name)
	return a, nil
}

func (a *Atlas) inspect(ctx context.Context) (*schema.Realm, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.realm != nil {
		return a.realm, nil
	}
	realm, err := a.inspector.InspectRealm(ctx, &schema.InspectRealmOption{})
	if err != nil {
		return nil, fmt.Errorf("schema: atlas: inspect realm: %w", err)
	}
	a.realm = realm
	return realm, nil
}

// Tables implements MetaData.
func (a *Atlas) Tables(ctx context.Context, schemaPattern, tablePattern string) ([]TableRef, error) {
	realm, err := a.inspect(ctx)
	if err != nil {
		return nil, err
	}
	var tables []TableRef
	for _, s := range realm.Schemas {
		if !a.like(schemaPattern, s.Name) {
			continue
		}
		for _, t := range s.Tables {
			if a.like(tablePattern, t.Name) {
				tables = append(tables, TableRef{Schema: s.Name, Name: t.Name})
			}
		}
	}
	return tables, nil
}

// errTableNotFound is returned for references outside the inspected realm.
var errTableNotFound = errors.New("table not found")

func (a *Atlas) table(ctx context.Context, ref TableRef) (*schema.Table, error) {
	realm, err := a.inspect(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range realm.Schemas {
		if ref.Schema != "" && s.Name != ref.Schema {
			continue
		}
		if t, ok := s.Table(ref.Name); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("schema: atlas: %s: %w", ref, errTableNotFound)
}

// Columns implements MetaData.
func (a *Atlas) Columns(ctx context.Context, ref TableRef) ([]Column, error) {
	t, err := a.table(ctx, ref)
	if err != nil {
		return nil, err
	}
	columns := make([]Column, 0, len(t.Columns))
	for i, c := range t.Columns {
		col := Column{Name: c.Name, Position: i + 1, Type: TypeOther}
		if c.Type != nil {
			col.Nullable = c.Type.Null
			col.TypeName = c.Type.Raw
			col.Type, col.Size, col.Scale = atlasType(c.Type.Type)
			if col.TypeName == "" {
				col.TypeName = col.Type.String()
			}
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// PrimaryKeys implements MetaData.
func (a *Atlas) PrimaryKeys(ctx context.Context, ref TableRef) ([]KeyColumn, error) {
	t, err := a.table(ctx, ref)
	if err != nil || t.PrimaryKey == nil {
		return nil, err
	}
	keys := make([]KeyColumn, 0, len(t.PrimaryKey.Parts))
	for i, p := range t.PrimaryKey.Parts {
		if p.C == nil {
			continue
		}
		keys = append(keys, KeyColumn{Constraint: t.PrimaryKey.Name, Column: p.C.Name, Seq: i + 1})
	}
	return keys, nil
}

// ForeignKeys implements MetaData.
func (a *Atlas) ForeignKeys(ctx context.Context, ref TableRef) ([]ForeignKeyColumn, error) {
	t, err := a.table(ctx, ref)
	if err != nil {
		return nil, err
	}
	var fks []ForeignKeyColumn
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == nil {
			continue
		}
		var refSchema string
		if fk.RefTable.Schema != nil {
			refSchema = fk.RefTable.Schema.Name
		}
		for i, c := range fk.Columns {
			col := ForeignKeyColumn{
				Constraint: fk.Symbol,
				Column:     c.Name,
				RefSchema:  refSchema,
				RefTable:   fk.RefTable.Name,
				Seq:        i + 1,
			}
			if i < len(fk.RefColumns) {
				col.RefColumn = fk.RefColumns[i].Name
			}
			fks = append(fks, col)
		}
	}
	return fks, nil
}

// atlasType maps an inspected Atlas type to a type code, size and scale.
func atlasType(t schema.Type) (TypeCode, int64, int64) {
	switch t := t.(type) {
	case *schema.BoolType:
		return TypeBoolean, 0, 0
	case *schema.IntegerType:
		if c := TypeCodeOf(t.T); c != TypeOther {
			return c, 0, 0
		}
		return TypeInteger, 0, 0
	case *schema.DecimalType:
		return TypeDecimal, int64(t.Precision), int64(t.Scale)
	case *schema.FloatType:
		if c := TypeCodeOf(t.T); c != TypeOther {
			return c, int64(t.Precision), 0
		}
		return TypeDouble, int64(t.Precision), 0
	case *schema.StringType:
		c := TypeCodeOf(t.T)
		if !slices.Contains([]TypeCode{TypeChar, TypeNChar, TypeVarChar, TypeNVarChar, TypeLongVarChar, TypeClob}, c) {
			c = TypeVarChar
		}
		return c, int64(t.Size), 0
	case *schema.TimeType:
		if c := TypeCodeOf(t.T); c != TypeOther {
			return c, 0, 0
		}
		return TypeTimestamp, 0, 0
	case *schema.BinaryType:
		var size int64
		if t.Size != nil {
			size = int64(*t.Size)
		}
		return TypeBinary, size, 0
	case *schema.EnumType:
		return TypeChar, 0, 0
	case *schema.JSONType, *schema.UUIDType:
		return TypeOther, 0, 0
	case *schema.UnsupportedType:
		return TypeCodeOf(t.T), 0, 0
	}
	return TypeOther, 0, 0
}

var _ MetaData = (*Atlas)(nil)
