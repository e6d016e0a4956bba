package sql

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/qgen/compiler/gen"
)

// NewSerializer returns the default serializer of query types. Features
// of the config that extend the output are registered as hooks.
func NewSerializer() *gen.Serializer {
	s := gen.NewSerializer(gen.Steps{
		Imports:      gen.EmitFunc(emitImports),
		ClassHeader:  gen.EmitFunc(emitClassHeader),
		Properties:   gen.EmitFunc(emitProperties),
		KeyAccessors: gen.EmitFunc(emitKeys),
		Outro:        gen.EmitFunc(emitOutro),
	})
	s.Use(gen.StepProperties, WhenFeature(gen.FeatureAllPaths, AllPaths()))
	return s
}

// emitImports registers the package names of the runtime and of the
// column types.
func emitImports(c *gen.Context) error {
	c.Writer.ImportName(RuntimePackage, "qgen")
	for _, p := range c.Type.Properties {
		if name := importName(p.Type); name != "" {
			c.Writer.ImportName(p.Type.Pkg(), name)
		}
	}
	return nil
}

// emitClassHeader opens the query type and embeds its entity.
func emitClassHeader(c *gen.Context) error {
	t := c.Type
	if err := c.Writer.BeginClass(t.Name, fmt.Sprintf("%s is a query type for table %s.", t.Name, t.QualifiedTable())); err != nil {
		return err
	}
	return c.Writer.Member(gen.Member{Type: jen.Op("*").Qual(RuntimePackage, "Entity")})
}

// emitProperties adds one path per column, in catalog order.
func emitProperties(c *gen.Context) error {
	r := c.Type.Receiver()
	for _, p := range c.Type.Properties {
		k := kindOf(p)
		m := gen.Member{
			Name: p.Name,
			Type: k.Type(),
			Init: k.Init(r, p.Column),
			Doc:  columnDoc(p),
		}
		if err := c.Writer.Member(m); err != nil {
			return err
		}
	}
	return nil
}

func columnDoc(p *gen.Property) string {
	doc := p.Column
	if p.TypeName != "" {
		doc += " " + p.TypeName
	}
	if !p.Nullable {
		doc += " NOT NULL"
	}
	return doc
}

// emitKeys adds the primary key and the foreign keys of the type.
func emitKeys(c *gen.Context) error {
	t := c.Type
	r := t.Receiver()
	if t.HasPrimaryKey() {
		pk := t.PrimaryKey
		args := []jen.Code{jen.Id(r).Dot("Entity"), jen.Lit(pk.Constraint)}
		for _, p := range pk.Properties {
			args = append(args, jen.Id(r).Dot(p.Name))
		}
		if err := c.Writer.Member(gen.Member{
			Name: pk.Name,
			Type: jen.Op("*").Qual(RuntimePackage, "PrimaryKey"),
			Init: jen.Qual(RuntimePackage, "NewPrimaryKey").Call(args...),
		}); err != nil {
			return err
		}
	}
	for _, fk := range t.Keys() {
		if err := c.Writer.Member(foreignKey(r, fk)); err != nil {
			return err
		}
	}
	return nil
}

// foreignKey returns the member of a foreign key accessor. The local
// columns of an inverse key are the referenced ones.
func foreignKey(r string, fk *gen.ForeignKey) gen.Member {
	ctor, local, ref, refColumns := "NewForeignKey", fk.Columns, fk.RefType, fk.RefColumns
	if fk.Inverse {
		ctor, local, ref, refColumns = "NewInverseForeignKey", fk.RefColumns, fk.Owner, fk.Columns
	}
	refDict := jen.Dict{
		jen.Id("Table"):   jen.Lit(ref.Table),
		jen.Id("Columns"): jen.Index().String().ValuesFunc(literals(gen.ColumnNames(refColumns))),
	}
	if ref.Schema != "" {
		refDict[jen.Id("Schema")] = jen.Lit(ref.Schema)
	}
	args := []jen.Code{
		jen.Id(r).Dot("Entity"),
		jen.Lit(fk.Constraint),
		jen.Qual(RuntimePackage, "Ref").Values(refDict),
	}
	for _, p := range local {
		args = append(args, jen.Id(r).Dot(p.Name))
	}
	doc := fmt.Sprintf("%s references %s(%s).", fk.Name, ref.QualifiedTable(), joinColumns(refColumns))
	if fk.Inverse {
		doc = fmt.Sprintf("%s is referenced by %s(%s).", fk.Name, ref.QualifiedTable(), joinColumns(refColumns))
	}
	return gen.Member{
		Name: fk.Name,
		Type: jen.Op("*").Qual(RuntimePackage, "ForeignKey"),
		Init: jen.Qual(RuntimePackage, ctor).Call(args...),
		Doc:  doc,
	}
}

func literals(values []string) func(*jen.Group) {
	return func(g *jen.Group) {
		for _, v := range values {
			g.Lit(v)
		}
	}
}

func joinColumns(ps []*gen.Property) string {
	return strings.Join(gen.ColumnNames(ps), ", ")
}

// emitOutro closes the type: the struct, its constructor and the default
// instance are added to the file.
func emitOutro(c *gen.Context) error {
	t := c.Type
	if t.Var != "" && c.Config.HasFeature(gen.FeatureDefaultInstances.Name) {
		c.Writer.Decl(jen.Commentf("%s is the default instance of %s.", t.Var, t.Name).Line().
			Var().Id(t.Var).Op("=").Id(t.Constructor()).Call(jen.Lit(t.Table)))
	}
	return c.Writer.EndClass(func(cl *gen.Class) []jen.Code {
		return []jen.Code{structDecl(cl), constructor(t, cl)}
	})
}

// structDecl renders the struct of the class.
func structDecl(cl *gen.Class) jen.Code {
	s := &jen.Statement{}
	for _, d := range cl.Doc {
		s.Comment(d).Line()
	}
	return s.Type().Id(cl.Name).StructFunc(func(g *jen.Group) {
		for _, m := range cl.Members {
			if m.Doc != "" {
				g.Comment(m.Doc)
			}
			if m.Name == "" {
				g.Add(m.Type)
				continue
			}
			g.Id(m.Name).Add(m.Type)
		}
	})
}

// constructor renders the function creating instances of the type. Members
// are initialised in declaration order.
func constructor(t *gen.Type, cl *gen.Class) jen.Code {
	r := t.Receiver()
	return jen.Commentf("%s returns a new %s referenced by the given alias.", t.Constructor(), cl.Name).Line().
		Func().Id(t.Constructor()).Params(jen.Id("alias").String()).Op("*").Id(cl.Name).BlockFunc(func(g *jen.Group) {
		g.Id(r).Op(":=").Op("&").Id(cl.Name).Values(jen.Dict{
			jen.Id("Entity"): jen.Qual(RuntimePackage, "NewEntity").Call(jen.Lit(t.Schema), jen.Lit(t.Table), jen.Id("alias")),
		})
		for _, m := range cl.Members {
			if m.Name != "" && m.Init != nil {
				g.Id(r).Dot(m.Name).Op("=").Add(m.Init)
			}
		}
		g.Return(jen.Id(r))
	})
}
