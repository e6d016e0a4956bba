// Package gen builds query types from catalog metadata and serializes them
// to Go source.
//
// # Architecture
//
// An export run follows this flow:
//
//	Catalog (schema.MetaData)
//	        ↓
//	   load.Catalog (tables, columns, keys)
//	        ↓
//	   Graph (pass 1: types and properties, pass 2: foreign keys)
//	        ↓
//	   Serializer (imports → class header → properties → key accessors → outro)
//	        ↓
//	   CodeWriter → Sink (one file per table)
//
// # Key Types
//
//   - NamingStrategy: converts table and column names to Go identifiers
//   - TypeMapper: maps SQL type codes to Go types
//   - Graph: holds all types of a run and the non-fatal diagnostics
//   - Type, Property, PrimaryKey, ForeignKey: the model of one table
//   - Serializer: the fixed step sequence and its hooks
//   - Exporter: drives a run and returns a Result
//
// # Error Handling
//
// Fatal errors are returned by Export:
//
//   - IntrospectionError: the catalog could not be read
//   - SerializationError: a file could not be rendered or written
//   - ConfigError: the configuration is incomplete
//
// Non-fatal problems are collected in Result.Diagnostics and logged:
//
//   - UnresolvedForeignKeyError: the key is dropped
//   - NamingCollisionError: the table (or key) is skipped
//   - EmptyTableError: the table is skipped
//
// Example error handling:
//
//	res, err := gen.NewExporter(cfg).Export(ctx, md)
//	if err != nil {
//	    return err
//	}
//	if err := res.Err(); err != nil && strict {
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./qmodel"),
//	    gen.WithPackage("github.com/org/project/qmodel"),
//	    gen.WithTablePattern("emp%"),
//	    gen.WithFeatures(gen.FeatureAllPaths),
//	)
//
// # Customization
//
// Steps are extended with hooks that call through to the base emitter:
//
//	s := sql.NewSerializer().Use(gen.StepProperties, gen.Append(gen.EmitFunc(
//	    func(c *gen.Context) error {
//	        // add members after the base properties
//	        return nil
//	    },
//	)))
//
// # Features
//
//   - instances: package-level default instance per type (default)
//   - inversekeys: accessors for keys referencing a type
//   - allpaths: Paths method listing all column paths
//   - cleanstale: remove generated files of tables no longer exported
package gen
