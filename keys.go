package qgen

// PrimaryKey is the primary key of a query model.
type PrimaryKey struct {
	root    *Entity
	name    string
	columns []Path
}

// NewPrimaryKey registers the primary key of e.
func NewPrimaryKey(e *Entity, name string, columns ...Path) *PrimaryKey {
	pk := &PrimaryKey{root: e, name: name, columns: columns}
	e.primary = pk
	return pk
}

// Root returns the entity the key belongs to.
func (k *PrimaryKey) Root() *Entity { return k.root }

// Name returns the constraint name.
func (k *PrimaryKey) Name() string { return k.name }

// Columns returns the key columns in key sequence order.
func (k *PrimaryKey) Columns() []Path { return append([]Path(nil), k.columns...) }

// Ref identifies the columns of a table on the other side of a foreign key.
type Ref struct {
	Schema  string
	Table   string
	Columns []string
}

// ForeignKey is a foreign key of a query model. For an inverse key the
// local columns are the referenced ones and Ref names the referencing
// table and columns.
type ForeignKey struct {
	root    *Entity
	name    string
	columns []Path
	ref     Ref
	inverse bool
}

// NewForeignKey registers a foreign key of e referencing ref.
func NewForeignKey(e *Entity, name string, ref Ref, columns ...Path) *ForeignKey {
	fk := &ForeignKey{root: e, name: name, ref: ref, columns: columns}
	e.foreign = append(e.foreign, fk)
	return fk
}

// NewInverseForeignKey registers on e a foreign key declared by the table
// in ref that references the given columns of e.
func NewInverseForeignKey(e *Entity, name string, ref Ref, columns ...Path) *ForeignKey {
	fk := NewForeignKey(e, name, ref, columns...)
	fk.inverse = true
	return fk
}

// Root returns the entity the key is registered on.
func (k *ForeignKey) Root() *Entity { return k.root }

// Name returns the constraint name.
func (k *ForeignKey) Name() string { return k.name }

// Columns returns the local columns in key sequence order.
func (k *ForeignKey) Columns() []Path { return append([]Path(nil), k.columns...) }

// Ref returns the other side of the key.
func (k *ForeignKey) Ref() Ref { return k.ref }

// Inverse reports whether the key is declared by the referencing table.
func (k *ForeignKey) Inverse() bool { return k.inverse }
