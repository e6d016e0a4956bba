// Package qgen holds the runtime types referenced by generated query models.
//
// A generated model embeds *Entity and declares one typed path per column
// and one key per primary or foreign key:
//
//	type QEmployee struct {
//	    *qgen.Entity
//	    ID        *qgen.Number[int32]
//	    Firstname *qgen.String
//	    PK        *qgen.PrimaryKey
//	    FKSurvey  *qgen.ForeignKey
//	}
//
// The types carry catalog metadata only. Building and running queries is
// left to the query layer consuming the models.
package qgen

import (
	"strings"
)

// Entity is the table-level root of a query model.
type Entity struct {
	schema  string
	table   string
	alias   string
	paths   []Path
	primary *PrimaryKey
	foreign []*ForeignKey
}

// NewEntity returns a new root for the given table. An empty alias
// defaults to the table name.
func NewEntity(schema, table, alias string) *Entity {
	if alias == "" {
		alias = table
	}
	return &Entity{schema: schema, table: table, alias: alias}
}

// Schema returns the schema of the table, if any.
func (e *Entity) Schema() string { return e.schema }

// Table returns the table name.
func (e *Entity) Table() string { return e.table }

// Alias returns the alias the entity is referenced by.
func (e *Entity) Alias() string { return e.alias }

// QualifiedName returns the schema qualified table name.
func (e *Entity) QualifiedName() string {
	if e.schema == "" {
		return e.table
	}
	return e.schema + "." + e.table
}

// String returns the table reference as it would appear in a FROM clause.
func (e *Entity) String() string {
	if e.alias == e.table {
		return e.QualifiedName()
	}
	return e.QualifiedName() + " AS " + e.alias
}

// Columns returns the column paths in declaration order.
func (e *Entity) Columns() []Path {
	return append([]Path(nil), e.paths...)
}

// Column returns the path of the given column. Column names are matched
// case-insensitively when there is no exact match.
func (e *Entity) Column(name string) (Path, error) {
	for _, p := range e.paths {
		if p.Name() == name {
			return p, nil
		}
	}
	for _, p := range e.paths {
		if strings.EqualFold(p.Name(), name) {
			return p, nil
		}
	}
	return nil, NewNotFoundError(e.QualifiedName(), name)
}

// PrimaryKey returns the primary key of the entity, or nil.
func (e *Entity) PrimaryKey() *PrimaryKey { return e.primary }

// ForeignKeys returns the foreign keys registered on the entity,
// including the inverse ones.
func (e *Entity) ForeignKeys() []*ForeignKey {
	return append([]*ForeignKey(nil), e.foreign...)
}

func (e *Entity) add(p Path) {
	e.paths = append(e.paths, p)
}
