package qgen_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/qgen"
)

// QEmployee mirrors the shape of a generated model.
type QEmployee struct {
	*qgen.Entity
	ID         *qgen.Number[int32]
	Firstname  *qgen.String
	Active     *qgen.Boolean
	Hired      *qgen.Time
	ExternalID *qgen.Simple[uuid.UUID]
	SuperiorID *qgen.Number[int32]
	PK         *qgen.PrimaryKey
	FKSuperior *qgen.ForeignKey
}

func NewQEmployee(alias string) *QEmployee {
	q := &QEmployee{Entity: qgen.NewEntity("public", "employee", alias)}
	q.ID = qgen.NewNumber[int32](q.Entity, "id")
	q.Firstname = qgen.NewString(q.Entity, "firstname")
	q.Active = qgen.NewBoolean(q.Entity, "active")
	q.Hired = qgen.NewTime(q.Entity, "hired")
	q.ExternalID = qgen.NewUUID(q.Entity, "external_id")
	q.SuperiorID = qgen.NewNumber[int32](q.Entity, "superior_id")
	q.PK = qgen.NewPrimaryKey(q.Entity, "pk_employee", q.ID)
	q.FKSuperior = qgen.NewForeignKey(q.Entity, "fk_superior", qgen.Ref{Schema: "public", Table: "employee", Columns: []string{"id"}}, q.SuperiorID)
	return q
}

func TestEntity(t *testing.T) {
	e := NewQEmployee("e")
	assert.Equal(t, "public", e.Schema())
	assert.Equal(t, "employee", e.Table())
	assert.Equal(t, "e", e.Alias())
	assert.Equal(t, "public.employee", e.QualifiedName())
	assert.Equal(t, "public.employee AS e", e.String())
	assert.Equal(t, "public.employee", NewQEmployee("").String())

	columns := e.Columns()
	require.Len(t, columns, 6)
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name()
		assert.Same(t, e.Entity, c.Root())
	}
	assert.Equal(t, []string{"id", "firstname", "active", "hired", "external_id", "superior_id"}, names)
	assert.Equal(t, "e.firstname", e.Firstname.String())

	p, err := e.Column("FIRSTNAME")
	require.NoError(t, err)
	assert.Equal(t, qgen.Path(e.Firstname), p)
	_, err = e.Column("salary")
	assert.True(t, qgen.IsNotFound(err))

	// Columns returns a copy.
	columns[0] = nil
	assert.NotNil(t, e.Columns()[0])
}

func TestKeys(t *testing.T) {
	e := NewQEmployee("e")
	require.Same(t, e.PK, e.PrimaryKey())
	assert.Equal(t, "pk_employee", e.PK.Name())
	assert.Equal(t, []qgen.Path{e.ID}, e.PK.Columns())
	assert.Same(t, e.Entity, e.PK.Root())

	fks := e.ForeignKeys()
	require.Len(t, fks, 1)
	assert.Same(t, e.FKSuperior, fks[0])
	assert.Equal(t, "employee", e.FKSuperior.Ref().Table)
	assert.Equal(t, []qgen.Path{e.SuperiorID}, e.FKSuperior.Columns())
	assert.False(t, e.FKSuperior.Inverse())

	inv := qgen.NewInverseForeignKey(e.Entity, "fk_superior", qgen.Ref{Schema: "public", Table: "employee", Columns: []string{"superior_id"}}, e.ID)
	assert.True(t, inv.Inverse())
	assert.Len(t, e.ForeignKeys(), 2)
}
