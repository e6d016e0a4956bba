package gen

import (
	"strings"

	"github.com/syssam/qgen/dialect/sql/schema"
	"github.com/syssam/qgen/schema/field"
)

// TypeMapper maps a catalog column type to a Go type. Implementations must
// be total: unknown codes map to a fallback instead of failing.
type TypeMapper interface {
	Map(code schema.TypeCode, size, scale int64) *field.TypeInfo
}

// NamedTypeMapper is implemented by type mappers that can also map by the
// native type name, for types the generic codes cannot tell apart
// (uuid, json). The exporter consults it before Map.
type NamedTypeMapper interface {
	MapNamed(name string, code schema.TypeCode, size, scale int64) (*field.TypeInfo, bool)
}

// Fallback is the type of columns whose code no mapping covers.
var Fallback = &field.TypeInfo{Type: field.TypeOther}

// DefaultTypeMapper maps the generic SQL type codes to Go types. Mappings
// can be replaced per code or per native type name.
type DefaultTypeMapper struct {
	codes map[schema.TypeCode]*field.TypeInfo
	named map[string]*field.TypeInfo
}

// NewTypeMapper returns a DefaultTypeMapper holding the standard mappings.
func NewTypeMapper() *DefaultTypeMapper {
	m := &DefaultTypeMapper{
		codes: make(map[schema.TypeCode]*field.TypeInfo, len(defaultCodes)),
		named: make(map[string]*field.TypeInfo, len(defaultNamed)),
	}
	for c, t := range defaultCodes {
		m.codes[c] = &field.TypeInfo{Type: t}
	}
	for n, t := range defaultNamed {
		m.named[n] = &field.TypeInfo{Type: t}
	}
	return m
}

var (
	defaultCodes = map[schema.TypeCode]field.Type{
		schema.TypeBoolean:               field.TypeBool,
		schema.TypeTinyInt:               field.TypeInt8,
		schema.TypeSmallInt:              field.TypeInt16,
		schema.TypeInteger:               field.TypeInt32,
		schema.TypeBigInt:                field.TypeInt64,
		schema.TypeReal:                  field.TypeFloat32,
		schema.TypeFloat:                 field.TypeFloat64,
		schema.TypeDouble:                field.TypeFloat64,
		schema.TypeChar:                  field.TypeString,
		schema.TypeVarChar:               field.TypeString,
		schema.TypeLongVarChar:           field.TypeString,
		schema.TypeNChar:                 field.TypeString,
		schema.TypeNVarChar:              field.TypeString,
		schema.TypeLongNVarChar:          field.TypeString,
		schema.TypeClob:                  field.TypeString,
		schema.TypeNClob:                 field.TypeString,
		schema.TypeSQLXML:                field.TypeString,
		schema.TypeDate:                  field.TypeTime,
		schema.TypeTime:                  field.TypeTime,
		schema.TypeTimestamp:             field.TypeTime,
		schema.TypeTimeWithTimezone:      field.TypeTime,
		schema.TypeTimestampWithTimezone: field.TypeTime,
		schema.TypeBinary:                field.TypeBytes,
		schema.TypeVarBinary:             field.TypeBytes,
		schema.TypeLongVarBinary:         field.TypeBytes,
		schema.TypeBlob:                  field.TypeBytes,
		schema.TypeRowID:                 field.TypeBytes,
	}
	defaultNamed = map[string]field.Type{
		"uuid":             field.TypeUUID,
		"uniqueidentifier": field.TypeUUID,
		"json":             field.TypeJSON,
		"jsonb":            field.TypeJSON,
	}
)

// Map implements TypeMapper.
//
//	BIT(1)                 => bool
//	BIT(n)                 => []byte
//	NUMERIC(p, 0), p <= 9  => int32
//	NUMERIC(p, 0), p <= 18 => int64
//	NUMERIC(p, s)          => float64
//	unknown                => any
func (m *DefaultTypeMapper) Map(code schema.TypeCode, size, scale int64) *field.TypeInfo {
	if t, ok := m.codes[code]; ok {
		return t
	}
	switch code {
	case schema.TypeBit:
		if size <= 1 {
			return &field.TypeInfo{Type: field.TypeBool}
		}
		return &field.TypeInfo{Type: field.TypeBytes}
	case schema.TypeNumeric, schema.TypeDecimal:
		switch {
		case scale == 0 && size > 0 && size <= 9:
			return &field.TypeInfo{Type: field.TypeInt32}
		case scale == 0 && size > 0 && size <= 18:
			return &field.TypeInfo{Type: field.TypeInt64}
		default:
			return &field.TypeInfo{Type: field.TypeFloat64}
		}
	}
	return Fallback
}

// MapNamed implements NamedTypeMapper. Names are matched case-insensitively.
func (m *DefaultTypeMapper) MapNamed(name string, _ schema.TypeCode, _, _ int64) (*field.TypeInfo, bool) {
	t, ok := m.named[strings.ToLower(name)]
	return t, ok
}

// Override replaces the mapping of a type code. Size and scale rules of
// the code no longer apply.
func (m *DefaultTypeMapper) Override(code schema.TypeCode, t *field.TypeInfo) *DefaultTypeMapper {
	m.codes[code] = t
	return m
}

// OverrideNamed maps a native type name, taking precedence over its code.
func (m *DefaultTypeMapper) OverrideNamed(name string, t *field.TypeInfo) *DefaultTypeMapper {
	m.named[strings.ToLower(name)] = t
	return m
}

// mapColumn resolves the Go type of a column, consulting the native name
// first when the mapper supports it.
func mapColumn(m TypeMapper, c schema.Column) *field.TypeInfo {
	if nm, ok := m.(NamedTypeMapper); ok && c.TypeName != "" {
		base, _, _ := schema.ParseTypeName(c.TypeName)
		if t, ok := nm.MapNamed(base, c.Type, c.Size, c.Scale); ok && t != nil {
			return t
		}
	}
	if t := m.Map(c.Type, c.Size, c.Scale); t != nil && t.Valid() {
		return t
	}
	return Fallback
}
