package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	"github.com/syssam/qgen/dialect"
	dsql "github.com/syssam/qgen/dialect/sql"
	"github.com/syssam/qgen/dialect/sql/schema"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// source is an open catalog connection.
type source struct {
	md    schema.MetaData
	drv   *dsql.Driver
	stats *dsql.QueryStats
}

// Close closes the connection.
func (s *source) Close() error {
	return s.drv.Close()
}

// openSource opens the catalog of a database target. Catalog queries are
// counted, and logged at debug level when verbose is set. The schema
// pattern of MySQL targets defaults to the database of the DSN.
func openSource(ctx context.Context, t *Target, logger *slog.Logger, verbose bool) (*source, error) {
	name := dsql.DialectOf(t.Driver)
	if !dialect.Supported(name) {
		return nil, fmt.Errorf("unsupported driver %q", t.Driver)
	}
	switch {
	case name == dialect.MySQL:
		cfg, err := mysql.ParseDSN(t.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		if t.Schema == "" {
			t.Schema = cfg.DBName
		}
	case t.Driver == "pgx":
		cfg, err := pgx.ParseConfig(t.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse pgx dsn: %w", err)
		}
		logger.DebugContext(ctx, "connecting", "target", t.Name, "host", cfg.Host, "database", cfg.Database)
	}
	drv, err := dsql.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.Driver, err)
	}
	if err := drv.DB().PingContext(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("connect %s: %w", t.Driver, err)
	}
	s := &source{drv: drv}
	if t.Inspector == InspectorAtlas {
		if s.md, err = schema.OpenAtlas(name, drv.DB()); err != nil {
			drv.Close()
			return nil, err
		}
		return s, nil
	}
	var d dialect.Driver = drv
	if verbose {
		d = dsql.NewDebugDriver(d, logger)
	}
	sd := dsql.NewStatsDriver(d, dsql.WithSlowQueryLog(logger))
	if s.md, err = schema.Open(sd); err != nil {
		drv.Close()
		return nil, err
	}
	s.stats = sd.QueryStats()
	return s, nil
}
