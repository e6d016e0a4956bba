package field

import (
	"path"
)

// A Type represents a host (Go) type that a column is mapped to.
type Type uint8

// List of host types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeJSON
	TypeUUID
	TypeBytes
	TypeEnum
	TypeString
	TypeOther
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint
	TypeUint64
	TypeFloat32
	TypeFloat64
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid: "invalid",
		TypeBool:    "bool",
		TypeTime:    "time.Time",
		TypeJSON:    "json.RawMessage",
		TypeUUID:    "uuid.UUID",
		TypeBytes:   "[]byte",
		TypeEnum:    "string",
		TypeString:  "string",
		TypeOther:   "any",
		TypeInt:     "int",
		TypeInt8:    "int8",
		TypeInt16:   "int16",
		TypeInt32:   "int32",
		TypeInt64:   "int64",
		TypeUint:    "uint",
		TypeUint8:   "uint8",
		TypeUint16:  "uint16",
		TypeUint32:  "uint32",
		TypeUint64:  "uint64",
		TypeFloat32: "float32",
		TypeFloat64: "float64",
	}
	typePkgs = [...]string{
		TypeTime: "time",
		TypeJSON: "encoding/json",
		TypeUUID: "github.com/google/uuid",
	}
)

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt8 && t < endTypes
}

// TypeInfo holds the information regarding a host type.
// Ident and PkgPath override the defaults of Type, and are
// set for custom types such as decimal.Decimal.
type TypeInfo struct {
	Type    Type
	Ident   string
	PkgPath string
}

// String returns the string representation of the type, for example
// "int32", "time.Time" or "decimal.Decimal".
func (t TypeInfo) String() string {
	if t.Ident != "" {
		return t.Ident
	}
	return t.Type.String()
}

// Valid reports if the information contains a valid type.
func (t TypeInfo) Valid() bool {
	return t.Type.Valid()
}

// Numeric reports if the type is a numeric type.
func (t TypeInfo) Numeric() bool {
	return t.Type.Numeric()
}

// Pkg returns the import path of the package declaring the type,
// or an empty string for builtin types.
func (t TypeInfo) Pkg() string {
	if t.PkgPath != "" {
		return t.PkgPath
	}
	if int(t.Type) < len(typePkgs) {
		return typePkgs[t.Type]
	}
	return ""
}

// Name returns the unqualified type name, for example "Time" for
// "time.Time" and "int32" for builtin types.
func (t TypeInfo) Name() string {
	s := t.String()
	if t.Pkg() == "" {
		return s
	}
	return path.Ext("." + s)[1:]
}
