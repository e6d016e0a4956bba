package gen

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/qgen/compiler/load"
	"github.com/syssam/qgen/dialect/sql/schema"
)

// Exporter generates one query type per catalog table.
//
//	exp := gen.NewExporter(cfg)
//	res, err := exp.Export(ctx, md)
//	if err != nil {
//		return err
//	}
//	for _, d := range res.Diagnostics {
//		log.Println(d)
//	}
type Exporter struct {
	cfg *Config
}

// NewExporter returns an exporter for the given configuration.
func NewExporter(c *Config) *Exporter {
	return &Exporter{cfg: c}
}

// Result is the outcome of an export run.
type Result struct {
	// Classes holds the import-path qualified names of the generated types.
	Classes []string
	// Files holds the names of the written files, relative to the target.
	Files []string
	// Removed holds the stale files deleted after the run.
	Removed []string
	// Diagnostics holds the non-fatal problems of the run.
	Diagnostics []Diagnostic
	// Stats summarizes the exported model.
	Stats Stats
	// Metrics tracks formatting and writing.
	Metrics WriterMetrics
}

// Stats summarizes an export run.
type Stats struct {
	Tables      int
	Skipped     int
	Properties  int
	ForeignKeys int
	Unresolved  int
}

// Err joins the diagnostics of the run. It is nil when the run had none.
func (r *Result) Err() error {
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d.Err
	}
	return errors.Join(errs...)
}

// Export reads the catalog through md and generates the query types.
// The returned error is fatal; non-fatal problems are reported in the
// result. Files written before a fatal error are left in place.
func (e *Exporter) Export(ctx context.Context, md schema.MetaData) (*Result, error) {
	c := e.cfg
	c.defaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	cat, err := load.Load(ctx, md, c.SchemaPattern, c.TablePattern)
	if err != nil {
		var le *load.Error
		if errors.As(err, &le) {
			return nil, NewIntrospectionError(le.Table, le.Op, le.Err)
		}
		return nil, NewIntrospectionError("", "", err)
	}
	return e.ExportCatalog(ctx, cat)
}

// ExportCatalog generates the query types of an already loaded catalog.
func (e *Exporter) ExportCatalog(ctx context.Context, cat *load.Catalog) (*Result, error) {
	c := e.cfg
	c.defaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	log := c.logger()
	g, err := NewGraph(c, cat)
	if err != nil {
		return nil, err
	}
	if p, ok := c.Sink.(interface{ Prepare() error }); ok {
		if err := p.Prepare(); err != nil {
			return nil, NewSerializationError("", c.Target, "create output directory", err)
		}
	}
	r := &Result{Diagnostics: g.Diagnostics}
	for _, t := range g.Nodes {
		w := NewCodeWriter(t.FileName(), c.PackageName(), c.HeaderComment())
		if err := c.Serializer.Serialize(&Context{Config: c, Graph: g, Type: t, Writer: w}); err != nil {
			return nil, NewSerializationError(t.Name, t.FileName(), "", err)
		}
		if err := writeFile(c.Sink, w, &r.Metrics); err != nil {
			return nil, NewSerializationError(t.Name, t.FileName(), "write", err)
		}
		log.DebugContext(ctx, "query type written", "class", t.Name, "table", t.QualifiedTable(), "file", t.FileName())
		r.Files = append(r.Files, t.FileName())
		r.Classes = append(r.Classes, c.QualifiedName(t.Name))
		r.Stats.Properties += len(t.Properties)
		r.Stats.ForeignKeys += len(t.ForeignKeys)
	}
	for _, f := range c.Features {
		if f.after == nil {
			continue
		}
		if err := f.after(c, r); err != nil {
			return nil, NewSerializationError("", c.Target, fmt.Sprintf("feature %s", f.Name), err)
		}
	}
	r.Stats.Tables = len(g.Nodes)
	r.Stats.Skipped = len(cat.Tables) - len(g.Nodes)
	for _, d := range r.Diagnostics {
		if errors.Is(d.Err, ErrUnresolvedForeignKey) {
			r.Stats.Unresolved++
		}
		log.WarnContext(ctx, "export diagnostic", "table", d.Table, "error", d.Err)
	}
	log.InfoContext(ctx, "export finished",
		"package", c.PackageName(),
		"tables", r.Stats.Tables,
		"skipped", r.Stats.Skipped,
		"properties", r.Stats.Properties,
		"foreign_keys", r.Stats.ForeignKeys,
		"unresolved", r.Stats.Unresolved,
		"bytes", r.Metrics.TotalBytes,
	)
	return r, nil
}
