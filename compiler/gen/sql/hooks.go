package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/qgen/compiler/gen"
)

// AllPaths returns a properties hook that adds a Paths method listing the
// column paths of the type, after the base properties are emitted.
//
//	s := sql.NewSerializer().Use(gen.StepProperties, sql.AllPaths())
func AllPaths() gen.Hook {
	return gen.Append(gen.EmitFunc(func(c *gen.Context) error {
		t := c.Type
		r := t.Receiver()
		return c.Writer.Method("Paths", jen.Commentf("Paths returns the column paths of %s in declaration order.", t.Name).Line().
			Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("Paths").Params().Index().Qual(RuntimePackage, "Path").Block(
			jen.Return(jen.Index().Qual(RuntimePackage, "Path").ValuesFunc(func(g *jen.Group) {
				for _, p := range t.Properties {
					g.Id(r).Dot(p.Name)
				}
			})),
		))
	}))
}

// WhenFeature returns a hook that applies h only when the feature is
// enabled in the config of the run.
func WhenFeature(f gen.Feature, h gen.Hook) gen.Hook {
	return func(next gen.Emitter) gen.Emitter {
		wrapped := h(next)
		return gen.EmitFunc(func(c *gen.Context) error {
			if c.Config.HasFeature(f.Name) {
				return wrapped.Emit(c)
			}
			return next.Emit(c)
		})
	}
}
