// Package field describes the host types that catalog columns are mapped to.
//
// A TypeInfo names a Go type either through one of the builtin kinds:
//
//	&field.TypeInfo{Type: field.TypeInt32}   // int32
//	&field.TypeInfo{Type: field.TypeTime}    // time.Time
//
// or through a custom identifier and package:
//
//	&field.TypeInfo{
//	    Type:    field.TypeOther,
//	    Ident:   "decimal.Decimal",
//	    PkgPath: "github.com/shopspring/decimal",
//	}
package field
