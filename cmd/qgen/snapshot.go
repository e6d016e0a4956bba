package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/qgen/compiler/load"
)

func newSnapshotCmd(o *rootOptions) *cobra.Command {
	var (
		t   Target
		out string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a database catalog to a file",
		Long: "Snapshot reads the catalog of a database and writes it to a JSON or msgpack file.\n" +
			"The format is chosen by the file extension (.json, .msgpack). Snapshots can be\n" +
			"exported later with 'qgen export --snapshot' without a database connection.",
		Example: "  qgen snapshot --driver postgres --dsn $DATABASE_URL --schema public -o catalog.msgpack",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case t.Driver == "" || t.DSN == "":
				return errors.New("--driver and --dsn are required")
			case out == "":
				return errors.New("--out is required")
			}
			t.Name = out
			ctx := cmd.Context()
			src, err := openSource(ctx, &t, o.logger, o.verbose)
			if err != nil {
				return err
			}
			defer src.Close()
			cat, err := load.Load(ctx, src.md, t.Schema, t.Tables)
			if err != nil {
				return err
			}
			cat.Dialect = src.drv.Dialect()
			if err := cat.WriteFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tables written to %s (%s)\n", len(cat.Tables), out, load.FormatOf(out))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&t.Driver, "driver", "", "database/sql driver: postgres, pgx, mysql or sqlite")
	fs.StringVar(&t.DSN, "dsn", "", "data source name of the database")
	fs.StringVar(&t.Inspector, "inspector", "", "catalog inspector: catalog (default) or atlas")
	fs.StringVar(&t.Schema, "schema", "", "schema pattern (SQL LIKE)")
	fs.StringVar(&t.Tables, "tables", "", "table pattern (SQL LIKE)")
	fs.StringVarP(&out, "out", "o", "", "snapshot file")
	return cmd
}
