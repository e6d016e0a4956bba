// Package sql implements the default serializer of query types.
//
// Each exported table becomes one file holding a struct that embeds
// *qgen.Entity, one typed path per column and one key per primary or
// foreign key, a constructor, and optionally a default instance:
//
//	// QEmployee is a query type for table employee.
//	type QEmployee struct {
//	    *qgen.Entity
//	    ID         *qgen.Number[int32]
//	    Firstname  *qgen.String
//	    SuperiorID *qgen.Number[int32]
//	    PK         *qgen.PrimaryKey
//	    FKSuperior *qgen.ForeignKey
//	}
//
//	func NewQEmployee(alias string) *QEmployee { ... }
//
//	var Employee = NewQEmployee("employee")
//
// Usage:
//
//	res, err := sql.Export(ctx, md,
//	    gen.WithTarget("./qmodel"),
//	    gen.WithPackage("github.com/acme/app/qmodel"),
//	)
//
// The serializer returned by NewSerializer can be extended with hooks
// before it is passed to gen.WithSerializer:
//
//	s := sql.NewSerializer()
//	s.Use(gen.StepOutro, gen.Prepend(gen.EmitFunc(func(c *gen.Context) error {
//	    return c.Writer.Method("Describe", describe(c.Type))
//	})))
package sql
