package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/qgen/compiler/load"
)

// fieldSerializer emits a plain struct with one string field per property.
func fieldSerializer() *Serializer {
	return NewSerializer(Steps{
		ClassHeader: EmitFunc(func(c *Context) error {
			return c.Writer.BeginClass(c.Type.Name, c.Type.Name+" maps "+c.Type.QualifiedTable()+".")
		}),
		Properties: EmitFunc(func(c *Context) error {
			for _, p := range c.Type.Properties {
				if err := c.Writer.Member(Member{Name: p.Name, Type: jen.String()}); err != nil {
					return err
				}
			}
			return nil
		}),
		Outro: EmitFunc(func(c *Context) error {
			return c.Writer.EndClass(renderStruct)
		}),
	})
}

func renderStruct(cl *Class) []jen.Code {
	fields := make([]jen.Code, len(cl.Members))
	for i, m := range cl.Members {
		fields[i] = jen.Id(m.Name).Add(m.Type)
	}
	var code []jen.Code
	for _, d := range cl.Doc {
		code = append(code, jen.Comment(d))
	}
	return append(code, jen.Type().Id(cl.Name).Struct(fields...))
}

func testCatalog(tables ...*load.Table) *load.Catalog {
	return &load.Catalog{Tables: tables}
}
