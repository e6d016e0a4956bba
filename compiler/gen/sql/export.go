package sql

import (
	"context"

	"github.com/syssam/qgen/compiler/gen"
	"github.com/syssam/qgen/compiler/load"
	"github.com/syssam/qgen/dialect/sql/schema"
)

// Export reads the catalog through md and writes the query types with the
// default serializer. Options are applied after the serializer is set, so
// gen.WithSerializer replaces it.
func Export(ctx context.Context, md schema.MetaData, opts ...gen.Option) (*gen.Result, error) {
	c, err := config(opts)
	if err != nil {
		return nil, err
	}
	return gen.NewExporter(c).Export(ctx, md)
}

// ExportCatalog writes the query types of a loaded catalog, for example a
// snapshot read with load.ReadFile.
func ExportCatalog(ctx context.Context, cat *load.Catalog, opts ...gen.Option) (*gen.Result, error) {
	c, err := config(opts)
	if err != nil {
		return nil, err
	}
	return gen.NewExporter(c).ExportCatalog(ctx, cat)
}

func config(opts []gen.Option) (*gen.Config, error) {
	return gen.NewConfig(append([]gen.Option{gen.WithSerializer(NewSerializer())}, opts...)...)
}
