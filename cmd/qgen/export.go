package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/qgen/compiler/gen"
	qsql "github.com/syssam/qgen/compiler/gen/sql"
	"github.com/syssam/qgen/compiler/load"
)

// exportFlags holds the flags of the export command. The target flags
// define a single target and take precedence over the config file.
type exportFlags struct {
	target   Target
	prefix   string
	jobs     int
	strict   bool
	watch    bool
	features []string
	disable  []string
}

func newExportCmd(o *rootOptions) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate query types from a database catalog",
		Long: "Export reads the catalog of one or more targets and writes one query type per table.\n" +
			"Targets are read from the config file, unless --dsn or --snapshot define a single one.",
		Example: "  qgen export --driver pgx --dsn $DATABASE_URL --schema public --out ./qmodel\n" +
			"  qgen export --config qgen.yaml --jobs 4\n" +
			"  qgen export --snapshot catalog.json --out ./qmodel --watch",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd, o.configFile)
			if err != nil {
				return err
			}
			r := &runner{logger: o.logger, verbose: o.verbose, strict: f.strict, out: cmd.OutOrStdout()}
			if !f.watch {
				return r.run(cmd.Context(), cfg)
			}
			files := cfg.Watched()
			if cmd.Flags().Changed("dsn") || cmd.Flags().Changed("snapshot") {
				return watch(cmd.Context(), o.logger, files, func(ctx context.Context) error {
					return r.run(ctx, cfg)
				})
			}
			return watch(cmd.Context(), o.logger, append(files, o.configFile), func(ctx context.Context) error {
				cfg, err := ReadConfig(o.configFile)
				if err != nil {
					return err
				}
				if f.jobs > 0 {
					cfg.Jobs = f.jobs
				}
				return r.run(ctx, cfg)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.target.Driver, "driver", "", "database/sql driver: postgres, pgx, mysql or sqlite")
	fs.StringVar(&f.target.DSN, "dsn", "", "data source name of the database")
	fs.StringVar(&f.target.Inspector, "inspector", "", "catalog inspector: catalog (default) or atlas")
	fs.StringVar(&f.target.Snapshot, "snapshot", "", "read the catalog from a snapshot file instead of a database")
	fs.StringVar(&f.target.Schema, "schema", "", "schema pattern (SQL LIKE)")
	fs.StringVar(&f.target.Tables, "tables", "", "table pattern (SQL LIKE)")
	fs.StringVar(&f.target.Package, "package", "", "import path of the generated package")
	fs.StringVarP(&f.target.Output, "out", "o", "", "output directory")
	fs.StringVar(&f.prefix, "prefix", gen.DefaultPrefix, "class name prefix")
	fs.StringVar(&f.target.Header, "header", "", "header comment of the generated files")
	fs.BoolVar(&f.target.Singular, "singular", false, "singularize class names")
	fs.StringSliceVar(&f.features, "feature", nil, "enable a codegen feature (repeatable)")
	fs.StringSliceVar(&f.disable, "disable", nil, "disable a codegen feature (repeatable)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "number of targets exported concurrently (default: one per target)")
	fs.BoolVar(&f.strict, "strict", false, "fail when the export reports diagnostics")
	fs.BoolVarP(&f.watch, "watch", "w", false, "export again when the config or snapshot files change")
	cmd.MarkFlagsMutuallyExclusive("dsn", "snapshot")
	return cmd
}

// config returns the configuration of the run: a single target defined by
// the flags, or the config file.
func (f *exportFlags) config(cmd *cobra.Command, configFile string) (*Config, error) {
	var cfg *Config
	if cmd.Flags().Changed("dsn") || cmd.Flags().Changed("snapshot") {
		t := f.target
		t.Features, t.Disable = f.features, f.disable
		if cmd.Flags().Changed("prefix") {
			t.Prefix = &f.prefix
		}
		cfg = &Config{Targets: []Target{t}}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if cfg, err = ReadConfig(configFile); err != nil {
			return nil, err
		}
	}
	if f.jobs > 0 {
		cfg.Jobs = f.jobs
	}
	return cfg, nil
}

// runner exports the targets of a configuration.
type runner struct {
	logger  *slog.Logger
	verbose bool
	strict  bool
	out     io.Writer
}

// run exports all targets concurrently and reports each result. The first
// failing target cancels the others.
func (r *runner) run(ctx context.Context, cfg *Config) error {
	cfg.Register()
	results := make([]*gen.Result, len(cfg.Targets))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}
	for i := range cfg.Targets {
		t := cfg.Targets[i]
		g.Go(func() error {
			res, err := r.export(ctx, &t)
			if err != nil {
				return fmt.Errorf("target %s: %w", t.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var failed []string
	for i, res := range results {
		t := cfg.Targets[i]
		fmt.Fprintf(r.out, "%s: %d types written to %s", t.Name, len(res.Files), t.Output)
		if n := len(res.Diagnostics); n > 0 {
			fmt.Fprintf(r.out, " (%d diagnostics)", n)
			failed = append(failed, t.Name)
		}
		fmt.Fprintln(r.out)
		for _, d := range res.Diagnostics {
			fmt.Fprintf(r.out, "  %s\n", d)
		}
	}
	if r.strict && len(failed) > 0 {
		return fmt.Errorf("diagnostics reported for %v", failed)
	}
	return nil
}

// export runs one target.
func (r *runner) export(ctx context.Context, t *Target) (*gen.Result, error) {
	if t.Snapshot != "" {
		cat, err := load.ReadFile(t.Snapshot)
		if err != nil {
			return nil, err
		}
		opts, err := t.Options(r.logger)
		if err != nil {
			return nil, err
		}
		return qsql.Export(ctx, cat.MetaData(), opts...)
	}
	src, err := openSource(ctx, t, r.logger, r.verbose)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	opts, err := t.Options(r.logger)
	if err != nil {
		return nil, err
	}
	res, err := qsql.Export(ctx, src.md, opts...)
	if src.stats != nil {
		s := src.stats.Stats()
		r.logger.InfoContext(ctx, "catalog queries",
			"target", t.Name,
			"queries", s.TotalQueries,
			"duration", s.TotalDuration,
			"slow", s.SlowQueries,
			"errors", s.Errors,
		)
	}
	return res, err
}
