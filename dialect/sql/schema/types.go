package schema

import (
	"strconv"
	"strings"
)

// TypeCode is a generic SQL type code. The values follow the codes used by
// most database metadata APIs, so codes read from one catalog can be mapped
// with the same table as codes read from another.
type TypeCode int

// SQL type codes.
const (
	TypeBit                   TypeCode = -7
	TypeTinyInt               TypeCode = -6
	TypeSmallInt              TypeCode = 5
	TypeInteger               TypeCode = 4
	TypeBigInt                TypeCode = -5
	TypeFloat                 TypeCode = 6
	TypeReal                  TypeCode = 7
	TypeDouble                TypeCode = 8
	TypeNumeric               TypeCode = 2
	TypeDecimal               TypeCode = 3
	TypeChar                  TypeCode = 1
	TypeVarChar               TypeCode = 12
	TypeLongVarChar           TypeCode = -1
	TypeDate                  TypeCode = 91
	TypeTime                  TypeCode = 92
	TypeTimestamp             TypeCode = 93
	TypeBinary                TypeCode = -2
	TypeVarBinary             TypeCode = -3
	TypeLongVarBinary         TypeCode = -4
	TypeNull                  TypeCode = 0
	TypeOther                 TypeCode = 1111
	TypeJavaObject            TypeCode = 2000
	TypeDistinct              TypeCode = 2001
	TypeStruct                TypeCode = 2002
	TypeArray                 TypeCode = 2003
	TypeBlob                  TypeCode = 2004
	TypeClob                  TypeCode = 2005
	TypeRef                   TypeCode = 2006
	TypeDatalink              TypeCode = 70
	TypeBoolean               TypeCode = 16
	TypeRowID                 TypeCode = -8
	TypeNChar                 TypeCode = -15
	TypeNVarChar              TypeCode = -9
	TypeLongNVarChar          TypeCode = -16
	TypeNClob                 TypeCode = 2011
	TypeSQLXML                TypeCode = 2009
	TypeRefCursor             TypeCode = 2012
	TypeTimeWithTimezone      TypeCode = 2013
	TypeTimestampWithTimezone TypeCode = 2014
)

var codeNames = map[TypeCode]string{
	TypeBit:                   "BIT",
	TypeTinyInt:               "TINYINT",
	TypeSmallInt:              "SMALLINT",
	TypeInteger:               "INTEGER",
	TypeBigInt:                "BIGINT",
	TypeFloat:                 "FLOAT",
	TypeReal:                  "REAL",
	TypeDouble:                "DOUBLE",
	TypeNumeric:               "NUMERIC",
	TypeDecimal:               "DECIMAL",
	TypeChar:                  "CHAR",
	TypeVarChar:               "VARCHAR",
	TypeLongVarChar:           "LONGVARCHAR",
	TypeDate:                  "DATE",
	TypeTime:                  "TIME",
	TypeTimestamp:             "TIMESTAMP",
	TypeBinary:                "BINARY",
	TypeVarBinary:             "VARBINARY",
	TypeLongVarBinary:         "LONGVARBINARY",
	TypeNull:                  "NULL",
	TypeOther:                 "OTHER",
	TypeJavaObject:            "JAVA_OBJECT",
	TypeDistinct:              "DISTINCT",
	TypeStruct:                "STRUCT",
	TypeArray:                 "ARRAY",
	TypeBlob:                  "BLOB",
	TypeClob:                  "CLOB",
	TypeRef:                   "REF",
	TypeDatalink:              "DATALINK",
	TypeBoolean:               "BOOLEAN",
	TypeRowID:                 "ROWID",
	TypeNChar:                 "NCHAR",
	TypeNVarChar:              "NVARCHAR",
	TypeLongNVarChar:          "LONGNVARCHAR",
	TypeNClob:                 "NCLOB",
	TypeSQLXML:                "SQLXML",
	TypeRefCursor:             "REF_CURSOR",
	TypeTimeWithTimezone:      "TIME_WITH_TIMEZONE",
	TypeTimestampWithTimezone: "TIMESTAMP_WITH_TIMEZONE",
}

// String returns the name of the type code.
func (c TypeCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "TypeCode(" + strconv.Itoa(int(c)) + ")"
}

// nativeCodes maps native type names of the supported databases to codes.
var nativeCodes = map[string]TypeCode{
	"bit":                         TypeBit,
	"bool":                        TypeBoolean,
	"boolean":                     TypeBoolean,
	"tinyint":                     TypeTinyInt,
	"smallint":                    TypeSmallInt,
	"int2":                        TypeSmallInt,
	"smallserial":                 TypeSmallInt,
	"year":                        TypeSmallInt,
	"mediumint":                   TypeInteger,
	"int":                         TypeInteger,
	"int4":                        TypeInteger,
	"integer":                     TypeInteger,
	"serial":                      TypeInteger,
	"bigint":                      TypeBigInt,
	"int8":                        TypeBigInt,
	"bigserial":                   TypeBigInt,
	"real":                        TypeReal,
	"float4":                      TypeReal,
	"float":                       TypeFloat,
	"double":                      TypeDouble,
	"double precision":            TypeDouble,
	"float8":                      TypeDouble,
	"numeric":                     TypeNumeric,
	"decimal":                     TypeDecimal,
	"money":                       TypeDecimal,
	"char":                        TypeChar,
	"character":                   TypeChar,
	"bpchar":                      TypeChar,
	"nchar":                       TypeNChar,
	"varchar":                     TypeVarChar,
	"character varying":           TypeVarChar,
	"nvarchar":                    TypeNVarChar,
	"enum":                        TypeChar,
	"set":                         TypeChar,
	"text":                        TypeLongVarChar,
	"tinytext":                    TypeLongVarChar,
	"mediumtext":                  TypeLongVarChar,
	"longtext":                    TypeLongVarChar,
	"clob":                        TypeClob,
	"date":                        TypeDate,
	"time":                        TypeTime,
	"time without time zone":      TypeTime,
	"timetz":                      TypeTimeWithTimezone,
	"time with time zone":         TypeTimeWithTimezone,
	"datetime":                    TypeTimestamp,
	"timestamp":                   TypeTimestamp,
	"timestamp without time zone": TypeTimestamp,
	"timestamptz":                 TypeTimestampWithTimezone,
	"timestamp with time zone":    TypeTimestampWithTimezone,
	"binary":                      TypeBinary,
	"varbinary":                   TypeVarBinary,
	"bytea":                       TypeBinary,
	"tinyblob":                    TypeLongVarBinary,
	"mediumblob":                  TypeLongVarBinary,
	"longblob":                    TypeLongVarBinary,
	"blob":                        TypeBlob,
	"xml":                         TypeSQLXML,
	"json":                        TypeOther,
	"jsonb":                       TypeOther,
	"uuid":                        TypeOther,
}

// TypeCodeOf returns the type code of a native type name, such as
// "character varying" or "DECIMAL(10,2)". Unknown names yield TypeOther.
func TypeCodeOf(name string) TypeCode {
	base, _, _ := ParseTypeName(name)
	if c, ok := nativeCodes[base]; ok {
		return c
	}
	switch {
	case strings.HasSuffix(base, "[]"), strings.HasPrefix(base, "_"):
		return TypeArray
	}
	return TypeOther
}

// ParseTypeName splits a declared type such as "DECIMAL(10, 2)" or
// "varchar(30)" into its lowercased base name and its size and scale
// arguments. Missing arguments are reported as zero.
func ParseTypeName(name string) (base string, size, scale int64) {
	base = strings.ToLower(strings.TrimSpace(name))
	open := strings.IndexByte(base, '(')
	if open < 0 {
		return base, 0, 0
	}
	args := base[open+1:]
	rest := ""
	if end := strings.IndexByte(args, ')'); end >= 0 {
		args, rest = args[:end], strings.TrimSpace(args[end+1:])
	}
	base = strings.TrimSpace(base[:open])
	// "timestamp(3) with time zone", "int(11) unsigned".
	if rest != "" && !strings.HasPrefix(rest, "unsigned") && !strings.HasPrefix(rest, "zerofill") {
		base += " " + rest
	}
	parts := strings.Split(args, ",")
	size, _ = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if len(parts) > 1 {
		scale, _ = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	}
	return base, size, scale
}
