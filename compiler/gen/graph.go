package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/syssam/qgen/compiler/load"
)

// maxAttempts bounds the disambiguation loop for strategies that never
// report exhaustion.
const maxAttempts = 1 << 12

type (
	// Graph holds the types of one export run. It is built in two passes:
	// all types with their properties and primary keys first, then the
	// foreign keys between them.
	Graph struct {
		*Config
		// Nodes are the types in table enumeration order.
		Nodes []*Type
		// Diagnostics collects the non-fatal problems found while building.
		Diagnostics []Diagnostic

		index   map[tableKey]*Type
		byName  map[string][]*Type
		classes map[string]struct{} // lower-cased, file names are derived from them
		idents  map[string]struct{} // package-level identifiers
	}

	tableKey struct{ schema, name string }
)

// NewGraph creates the types of the given catalog tables and resolves the
// foreign keys between them. Tables that cannot be modeled are skipped and
// reported in Diagnostics. The returned error is always fatal.
func NewGraph(c *Config, cat *load.Catalog) (*Graph, error) {
	c.defaults()
	g := &Graph{
		Config:  c,
		index:   make(map[tableKey]*Type),
		byName:  make(map[string][]*Type),
		classes: make(map[string]struct{}),
		idents:  make(map[string]struct{}),
	}
	for _, t := range cat.Tables {
		if err := g.addType(t); err != nil {
			if Fatal(err) {
				return nil, err
			}
			g.diagnose(t.Ref().String(), err)
		}
	}
	var inverse []*ForeignKey
	for _, t := range g.Nodes {
		fks, err := g.resolveForeignKeys(t)
		if err != nil {
			return nil, err
		}
		inverse = append(inverse, fks...)
	}
	if g.HasFeature(FeatureInverseForeignKeys.Name) {
		for _, fk := range inverse {
			g.addInverse(fk)
		}
	}
	if g.HasFeature(FeatureDefaultInstances.Name) {
		for _, t := range g.Nodes {
			g.setVar(t)
		}
	}
	return g, nil
}

// Type returns the type of the given table. An empty schema matches a
// table of any schema if the name is unique.
func (g *Graph) Type(schemaName, table string) (*Type, bool) {
	if t, ok := g.index[tableKey{schemaName, table}]; ok {
		return t, true
	}
	if schemaName == "" && len(g.byName[table]) == 1 {
		return g.byName[table][0], true
	}
	return nil, false
}

// Err joins the diagnostics of the graph.
func (g *Graph) Err() error {
	errs := make([]error, len(g.Diagnostics))
	for i, d := range g.Diagnostics {
		errs[i] = d.Err
	}
	return errors.Join(errs...)
}

func (g *Graph) diagnose(table string, err error) {
	g.Diagnostics = append(g.Diagnostics, Diagnostic{Table: table, Err: err})
}

// addType runs the first pass for one table.
func (g *Graph) addType(t *load.Table) error {
	table := t.Ref().String()
	if len(t.Columns) == 0 {
		return &EmptyTableError{Table: table}
	}
	base := g.Naming.ClassName(t.Name, g.Prefix)
	name, ok := g.unique(base, func(s string) bool {
		_, class := g.classes[strings.ToLower(s)]
		_, ident := g.idents[s]
		_, ctor := g.idents["New"+s]
		return class || ident || ctor
	})
	if !ok {
		return &NamingCollisionError{Table: table, Name: base}
	}
	typ := newType(g.Config, t, name)
	for _, c := range t.Columns {
		base := g.Naming.PropertyName(c.Name)
		pname, ok := g.unique(base, typ.HasMember)
		if !ok {
			return &NamingCollisionError{Table: table, Column: c.Name, Name: base}
		}
		typ.addProperty(&Property{
			Name:     pname,
			Column:   c.Name,
			SQLType:  c.Type,
			TypeName: c.TypeName,
			Size:     c.Size,
			Scale:    c.Scale,
			Nullable: c.Nullable,
			Position: c.Position,
			Type:     mapColumn(g.Types, c),
		})
	}
	if len(t.PrimaryKey) > 0 {
		pk := &PrimaryKey{Name: PrimaryKeyName, Constraint: t.PrimaryKeyName()}
		for _, k := range t.PrimaryKey {
			p, ok := typ.Property(k.Column)
			if !ok {
				return &IntrospectionError{Table: table, Column: k.Column, Op: "primary keys", Cause: errors.New("key column is not a column of the table")}
			}
			pk.Properties = append(pk.Properties, p)
		}
		typ.PrimaryKey = pk
	}
	g.Nodes = append(g.Nodes, typ)
	g.index[tableKey{t.Schema, t.Name}] = typ
	g.byName[t.Name] = append(g.byName[t.Name], typ)
	g.classes[strings.ToLower(name)] = struct{}{}
	g.idents[name] = struct{}{}
	g.idents[typ.Constructor()] = struct{}{}
	return nil
}

// resolveForeignKeys runs the second pass for one type. It returns the
// resolved keys for inverse registration.
func (g *Graph) resolveForeignKeys(t *Type) ([]*ForeignKey, error) {
	var resolved []*ForeignKey
	for _, fk := range t.table.ForeignKeys {
		unresolved := &UnresolvedForeignKeyError{
			Table:      t.QualifiedTable(),
			Constraint: fk.Name,
			RefTable:   qualify(fk.RefSchema, fk.RefTable),
		}
		ref, ok := g.lookup(t.Schema, fk.RefSchema, fk.RefTable)
		if !ok {
			g.diagnose(t.QualifiedTable(), unresolved)
			continue
		}
		key := &ForeignKey{Constraint: fk.Name, Owner: t, RefType: ref}
		for _, c := range fk.Columns {
			p, ok := t.Property(c)
			if !ok {
				return nil, &IntrospectionError{Table: t.QualifiedTable(), Column: c, Op: "foreign keys", Cause: errors.New("key column is not a column of the table")}
			}
			key.Columns = append(key.Columns, p)
		}
		if err := resolveRefColumns(key, fk, unresolved); err != nil {
			g.diagnose(t.QualifiedTable(), err)
			continue
		}
		base := g.Naming.ForeignKeyName(fk.Name, fk.Columns)
		name, ok := g.unique(base, t.HasMember)
		if !ok {
			g.diagnose(t.QualifiedTable(), &NamingCollisionError{Table: t.QualifiedTable(), Name: base})
			continue
		}
		key.Name = name
		t.members[name] = struct{}{}
		t.ForeignKeys = append(t.ForeignKeys, key)
		resolved = append(resolved, key)
	}
	return resolved, nil
}

// resolveRefColumns matches the referenced columns by name. Implicit
// references resolve to the primary key column at the same position.
func resolveRefColumns(key *ForeignKey, fk *load.ForeignKey, unresolved *UnresolvedForeignKeyError) error {
	ref := key.RefType
	for i := range key.Columns {
		var name string
		if i < len(fk.RefColumns) {
			name = fk.RefColumns[i]
		}
		if name == "" {
			if !ref.HasPrimaryKey() || len(ref.PrimaryKey.Properties) != len(key.Columns) {
				unresolved.Reason = fmt.Sprintf("implicit reference to %s does not match its primary key", ref.QualifiedTable())
				return unresolved
			}
			key.RefColumns = append(key.RefColumns, ref.PrimaryKey.Properties[i])
			continue
		}
		p, ok := ref.Property(name)
		if !ok {
			unresolved.RefColumn = name
			return unresolved
		}
		key.RefColumns = append(key.RefColumns, p)
	}
	return nil
}

// lookup finds the referenced type. A reference without schema resolves in
// the schema of the referrer first.
func (g *Graph) lookup(owner, refSchema, refTable string) (*Type, bool) {
	if refSchema != "" {
		t, ok := g.index[tableKey{refSchema, refTable}]
		return t, ok
	}
	if t, ok := g.index[tableKey{owner, refTable}]; ok {
		return t, true
	}
	return g.Type("", refTable)
}

// addInverse registers fk on its referenced type. Keys whose name cannot be
// made unique are reported and skipped.
func (g *Graph) addInverse(fk *ForeignKey) {
	base := g.inverseName(fk)
	name, ok := g.unique(base, fk.RefType.HasMember)
	if !ok {
		g.diagnose(fk.RefType.QualifiedTable(), &NamingCollisionError{Table: fk.RefType.QualifiedTable(), Name: base})
		return
	}
	inv := *fk
	inv.Name = name
	inv.Inverse = true
	fk.RefType.members[name] = struct{}{}
	fk.RefType.InverseForeignKeys = append(fk.RefType.InverseForeignKeys, &inv)
}

func (g *Graph) inverseName(fk *ForeignKey) string {
	columns := ColumnNames(fk.Columns)
	if n, ok := g.Naming.(InverseNamer); ok {
		return n.InverseForeignKeyName(fk.Constraint, fk.Owner.Table, columns)
	}
	return plural(g.Naming.ClassName(fk.Owner.Table, "")) + "By" + strings.TrimPrefix(fk.Name, "FK")
}

// setVar names the default instance of t after its table.
func (g *Graph) setVar(t *Type) {
	name := g.Naming.ClassName(t.Table, "")
	if _, taken := g.idents[name]; taken || !token.IsIdentifier(name) {
		return
	}
	t.Var = name
	g.idents[name] = struct{}{}
}

// unique returns base, or the first alternative of the naming strategy that
// is not taken. It reports false if base is not a valid identifier or all
// alternatives are taken.
func (g *Graph) unique(base string, taken func(string) bool) (string, bool) {
	if !token.IsIdentifier(base) {
		return "", false
	}
	if !taken(base) {
		return base, true
	}
	for attempt := 1; attempt < maxAttempts; attempt++ {
		name, ok := g.Naming.Disambiguate(base, attempt)
		if !ok {
			return "", false
		}
		if token.IsIdentifier(name) && !taken(name) {
			return name, true
		}
	}
	return "", false
}

func qualify(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}
