package qgen

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Path is a column reference of a query model.
type Path interface {
	// Root returns the entity the column belongs to.
	Root() *Entity
	// Name returns the column name.
	Name() string
	// String returns the alias qualified column name.
	String() string
}

type column struct {
	root *Entity
	name string
}

func (c column) Root() *Entity  { return c.root }
func (c column) Name() string   { return c.name }
func (c column) String() string { return c.root.Alias() + "." + c.name }

// Numeric is the set of host types a Number path can hold.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type (
	// Simple is a path to a column of host type T with no further
	// type-specific operations.
	Simple[T any] struct{ column }
	// Number is a path to a numeric column.
	Number[T Numeric] struct{ column }
	// String is a path to a character column.
	String struct{ column }
	// Boolean is a path to a boolean column.
	Boolean struct{ column }
	// Time is a path to a date, time or timestamp column.
	Time struct{ column }
)

// NewSimple registers a new Simple path on e.
func NewSimple[T any](e *Entity, name string) *Simple[T] {
	p := &Simple[T]{column{e, name}}
	e.add(p)
	return p
}

// NewNumber registers a new Number path on e.
func NewNumber[T Numeric](e *Entity, name string) *Number[T] {
	p := &Number[T]{column{e, name}}
	e.add(p)
	return p
}

// NewString registers a new String path on e.
func NewString(e *Entity, name string) *String {
	p := &String{column{e, name}}
	e.add(p)
	return p
}

// NewBoolean registers a new Boolean path on e.
func NewBoolean(e *Entity, name string) *Boolean {
	p := &Boolean{column{e, name}}
	e.add(p)
	return p
}

// NewTime registers a new Time path on e.
func NewTime(e *Entity, name string) *Time {
	p := &Time{column{e, name}}
	e.add(p)
	return p
}

// NewUUID registers a new path to a uuid column on e.
func NewUUID(e *Entity, name string) *Simple[uuid.UUID] {
	return NewSimple[uuid.UUID](e, name)
}

// NewJSON registers a new path to a json column on e.
func NewJSON(e *Entity, name string) *Simple[json.RawMessage] {
	return NewSimple[json.RawMessage](e, name)
}

// NewBytes registers a new path to a binary column on e.
func NewBytes(e *Entity, name string) *Simple[[]byte] {
	return NewSimple[[]byte](e, name)
}

var (
	_ Path = (*Simple[any])(nil)
	_ Path = (*Number[int])(nil)
	_ Path = (*String)(nil)
	_ Path = (*Boolean)(nil)
	_ Path = (*Time)(nil)
)
