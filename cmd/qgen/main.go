// Command qgen generates query types from the catalog of a relational
// database.
//
//	qgen export --driver pgx --dsn $DATABASE_URL --schema public --out ./qmodel
//	qgen export --config qgen.yaml --watch
//	qgen snapshot --driver sqlite --dsn app.db -o catalog.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "qgen",
		Short:         "Generate statically typed query models from a database catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(o.envFile); err != nil {
				if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env") {
					return fmt.Errorf("load env file: %w", err)
				}
			}
			level := slog.LevelInfo
			if o.verbose {
				level = slog.LevelDebug
			}
			o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", DefaultConfigFile, "path to the config file")
	pf.StringVar(&o.envFile, "env", ".env", "environment file loaded before the config is read")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log catalog queries and debug information")
	cmd.AddCommand(newExportCmd(o), newSnapshotCmd(o))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qgen:", err)
		os.Exit(1)
	}
}
