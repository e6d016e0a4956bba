// Package sql provides the database/sql backed driver used for catalog
// introspection.
//
// A Driver is opened by driver name and reports the dialect it speaks:
//
//	drv, err := sql.Open("pgx", "postgres://localhost/app")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	drv.Dialect() // "postgres"
//
// Drivers can be wrapped to collect query statistics or log every catalog
// query:
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//	debug := sql.NewDebugDriver(stats, logger)
package sql
