package gen

import (
	"log/slog"
	"path"
	"slices"
)

// DefaultPrefix is the class-name prefix set by NewConfig.
const DefaultPrefix = "Q"

// Config holds the configuration of one export run. It is passed unchanged
// to every serializer step of the run.
type Config struct {
	// Package is the import path of the generated package,
	// e.g. "github.com/org/project/qmodel".
	Package string
	// Target is the output directory.
	Target string
	// Prefix is prepended to every generated class name. NewConfig sets it
	// to DefaultPrefix.
	Prefix string
	// SchemaPattern and TablePattern are SQL LIKE patterns restricting the
	// exported tables. Empty matches everything.
	SchemaPattern string
	TablePattern  string
	// Naming converts catalog identifiers to Go identifiers.
	Naming NamingStrategy
	// Types maps catalog types to Go types.
	Types TypeMapper
	// Serializer renders one type to source.
	Serializer *Serializer
	// Header is the comment written at the top of each generated file.
	Header string
	// Features are the enabled feature flags.
	Features []Feature
	// Logger receives the run summary and diagnostics.
	Logger *slog.Logger
	// Sink receives the generated files. Defaults to a DirSink on Target.
	Sink Sink
}

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	if c.Package == "" {
		return "qmodel"
	}
	return path.Base(c.Package)
}

// QualifiedName returns the name of a generated type qualified with the
// package import path, e.g. "github.com/org/project/qmodel.QEmployee".
func (c *Config) QualifiedName(name string) string {
	pkg := c.Package
	if pkg == "" {
		pkg = c.PackageName()
	}
	return pkg + "." + name
}

// HeaderComment returns the header of generated files.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return "Code generated by qgen. DO NOT EDIT."
	}
	return c.Header
}

// FeatureEnabled reports if the given feature name is enabled.
// Features with Default set are enabled unless the config lists features
// explicitly. It returns an error for unknown names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	i := slices.IndexFunc(AllFeatures, func(f Feature) bool { return f.Name == name })
	if i == -1 {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	if c.Features == nil {
		return AllFeatures[i].Default, nil
	}
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name }), nil
}

// HasFeature reports if the given feature is enabled. Unknown names are
// reported as disabled.
func (c *Config) HasFeature(name string) bool {
	enabled, _ := c.FeatureEnabled(name)
	return enabled
}

// logger returns the configured logger or the default one.
func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// defaults fills unset collaborators with the default implementations.
func (c *Config) defaults() {
	if c.Naming == nil {
		c.Naming = NewNamingStrategy()
	}
	if c.Types == nil {
		c.Types = NewTypeMapper()
	}
	if c.Sink == nil && c.Target != "" {
		c.Sink = DirSink(c.Target)
	}
}

// validate checks the settings an export run cannot do without.
func (c *Config) validate() error {
	if c.Target == "" && c.Sink == nil {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if c.Serializer == nil {
		return NewConfigError("Serializer", nil, "no serializer set: use sql.NewSerializer() or sql.Export()")
	}
	return nil
}
