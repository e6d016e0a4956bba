package sql

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/qgen/compiler/gen"
	"github.com/syssam/qgen/schema/field"
)

// RuntimePackage is the import path of the package generated types depend on.
const RuntimePackage = "github.com/syssam/qgen"

// pathKind holds the runtime type and constructor of a property path.
type pathKind struct {
	// name of the runtime path type.
	name string
	// ctor is the name of the runtime constructor.
	ctor string
	// param is the type parameter of generic paths, if any.
	param jen.Code
	// explicit is set if the constructor needs its type parameter spelled out.
	explicit bool
}

// kindOf returns the path kind of a property.
func kindOf(p *gen.Property) pathKind {
	info := p.Type
	switch t := info.Type; {
	case t == field.TypeString || t == field.TypeEnum:
		return pathKind{name: "String", ctor: "NewString"}
	case t == field.TypeBool:
		return pathKind{name: "Boolean", ctor: "NewBoolean"}
	case t == field.TypeTime && info.PkgPath == "":
		return pathKind{name: "Time", ctor: "NewTime"}
	case t.Numeric() && info.Ident == "":
		return pathKind{name: "Number", ctor: "NewNumber", param: goType(info), explicit: true}
	case t == field.TypeUUID && info.Ident == "":
		return pathKind{name: "Simple", ctor: "NewUUID", param: goType(info)}
	case t == field.TypeJSON && info.Ident == "":
		return pathKind{name: "Simple", ctor: "NewJSON", param: goType(info)}
	case t == field.TypeBytes && info.Ident == "":
		return pathKind{name: "Simple", ctor: "NewBytes", param: goType(info)}
	default:
		return pathKind{name: "Simple", ctor: "NewSimple", param: goType(info), explicit: true}
	}
}

// Type returns the field type of the path.
func (k pathKind) Type() jen.Code {
	s := jen.Op("*").Qual(RuntimePackage, k.name)
	if k.param != nil {
		s = s.Types(k.param)
	}
	return s
}

// Init returns the expression registering the path of column on the
// entity of receiver r.
func (k pathKind) Init(r, column string) jen.Code {
	s := jen.Qual(RuntimePackage, k.ctor)
	if k.explicit {
		s = s.Types(k.param)
	}
	return s.Call(jen.Id(r).Dot("Entity"), jen.Lit(column))
}

// goType returns the Go type of a type info.
func goType(info *field.TypeInfo) jen.Code {
	if pkg := info.Pkg(); pkg != "" {
		return jen.Qual(pkg, info.Name())
	}
	return jen.Id(info.String())
}

// importName returns the package name of the type info, or an empty
// string for builtin types.
func importName(info *field.TypeInfo) string {
	pkg := info.Pkg()
	if pkg == "" {
		return ""
	}
	if name, _, ok := strings.Cut(info.String(), "."); ok {
		return name
	}
	return path.Base(pkg)
}
