package gen

import (
	"maps"
	"strings"

	"github.com/syssam/qgen/compiler/load"
	"github.com/syssam/qgen/dialect/sql/schema"
	"github.com/syssam/qgen/schema/field"
)

// The following types and their exported methods are used by the
// serializer steps to generate the query types.
type (
	// Type represents one table of the export run, its columns and keys.
	Type struct {
		*Config
		table *load.Table
		// Name holds the class name of the type.
		Name string
		// Schema and Table hold the catalog identifiers of the table.
		Schema string
		Table  string
		// Properties holds one property per column, in catalog order.
		Properties []*Property
		properties map[string]*Property
		// PrimaryKey of the table. Nil if the table has none.
		PrimaryKey *PrimaryKey
		// ForeignKeys are the resolved foreign keys held by the table.
		ForeignKeys []*ForeignKey
		// InverseForeignKeys are the resolved foreign keys of other
		// tables referencing this one.
		InverseForeignKeys []*ForeignKey
		// Var holds the name of the default instance variable. Empty
		// when no collision-free name exists.
		Var string
		// members holds the member names taken in the generated struct.
		members map[string]struct{}
	}

	// Property holds the information of a column used by the serializer.
	Property struct {
		// Name is the Go field name.
		Name string
		// Column is the catalog column name.
		Column string
		// SQLType is the generic type code reported by the catalog.
		SQLType schema.TypeCode
		// TypeName is the native type name.
		TypeName string
		// Size is the column size or numeric precision.
		Size int64
		// Scale is the number of fractional digits.
		Scale int64
		// Nullable indicates the column accepts NULL.
		Nullable bool
		// Position is the 1-based ordinal of the column.
		Position int
		// Type holds the Go type of the column.
		Type *field.TypeInfo
	}

	// PrimaryKey holds the primary key of a type.
	PrimaryKey struct {
		// Name of the generated accessor.
		Name string
		// Constraint name reported by the catalog, if any.
		Constraint string
		// Properties in key sequence order.
		Properties []*Property
	}

	// ForeignKey holds a resolved foreign key.
	ForeignKey struct {
		// Name of the generated accessor.
		Name string
		// Constraint name reported by the catalog, if any.
		Constraint string
		// Owner is the type holding the key columns.
		Owner *Type
		// Columns are the key columns of Owner, in key sequence order.
		Columns []*Property
		// RefType is the referenced type.
		RefType *Type
		// RefColumns are the referenced columns, parallel to Columns.
		RefColumns []*Property
		// Inverse indicates the accessor is generated on RefType.
		Inverse bool
	}
)

// PrimaryKeyName is the accessor name of primary keys.
const PrimaryKeyName = "PK"

// newType creates a type for the given table with no properties.
func newType(c *Config, t *load.Table, name string) *Type {
	return &Type{
		Config:     c,
		table:      t,
		Name:       name,
		Schema:     t.Schema,
		Table:      t.Name,
		properties: make(map[string]*Property, len(t.Columns)),
		members:    maps.Clone(reservedMembers),
	}
}

// QualifiedTable returns the table name, qualified with its schema if present.
func (t Type) QualifiedTable() string {
	if t.Schema == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

// Property returns the property of the given column.
func (t Type) Property(column string) (*Property, bool) {
	p, ok := t.properties[column]
	return p, ok
}

// Receiver returns the receiver name of this type. The class prefix is
// ignored.
func (t Type) Receiver() string {
	if t.Config != nil && t.Prefix != "" && len(t.Name) > len(t.Prefix) {
		return receiver(strings.TrimPrefix(t.Name, t.Prefix))
	}
	return receiver(t.Name)
}

// Constructor returns the name of the function creating instances of the type.
func (t Type) Constructor() string {
	return "New" + t.Name
}

// FileName returns the name of the file the type is written to.
func (t Type) FileName() string {
	return strings.ToLower(t.Name) + ".go"
}

// HasPrimaryKey reports if the type has a primary key.
func (t Type) HasPrimaryKey() bool {
	return t.PrimaryKey != nil && len(t.PrimaryKey.Properties) > 0
}

// Keys returns the foreign keys generated on the type: the held keys
// followed by the inverse keys.
func (t Type) Keys() []*ForeignKey {
	return append(t.ForeignKeys[:len(t.ForeignKeys):len(t.ForeignKeys)], t.InverseForeignKeys...)
}

// HasMember reports if the given member name is taken in the generated struct.
func (t Type) HasMember(name string) bool {
	_, ok := t.members[name]
	return ok
}

// addProperty adds a property for the given column.
func (t *Type) addProperty(p *Property) {
	t.Properties = append(t.Properties, p)
	t.properties[p.Column] = p
	t.members[p.Name] = struct{}{}
}

// ColumnNames returns the catalog column names of the properties.
func ColumnNames(ps []*Property) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Column
	}
	return names
}

// String returns the column name and Go type of the property.
func (p Property) String() string {
	return p.Column + " " + p.Type.String()
}

// Target returns the type the accessor is generated on.
func (fk ForeignKey) Target() *Type {
	if fk.Inverse {
		return fk.RefType
	}
	return fk.Owner
}
