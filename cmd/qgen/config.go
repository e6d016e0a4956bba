package main

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/qgen/compiler/gen"
	"github.com/syssam/qgen/schema/field"
)

// DefaultConfigFile is read when no configuration file is given.
const DefaultConfigFile = "qgen.yaml"

type (
	// Config is the content of a configuration file.
	//
	//	jobs: 2
	//	targets:
	//	  - name: app
	//	    driver: pgx
	//	    dsn: ${DATABASE_URL}
	//	    schema: public
	//	    package: github.com/acme/app/qmodel
	//	    output: ./qmodel
	//	    features: [inversekeys]
	//	    types:
	//	      numeric: github.com/shopspring/decimal.Decimal
	Config struct {
		// Jobs bounds the number of targets exported concurrently.
		Jobs    int      `yaml:"jobs,omitempty"`
		Targets []Target `yaml:"targets"`
	}

	// Target describes one export run. The catalog is read either from a
	// database (Driver and DSN) or from a snapshot file.
	Target struct {
		Name      string            `yaml:"name,omitempty"`
		Driver    string            `yaml:"driver,omitempty"`
		DSN       string            `yaml:"dsn,omitempty"`
		Inspector string            `yaml:"inspector,omitempty"`
		Snapshot  string            `yaml:"snapshot,omitempty"`
		Schema    string            `yaml:"schema,omitempty"`
		Tables    string            `yaml:"tables,omitempty"`
		Package   string            `yaml:"package,omitempty"`
		Output    string            `yaml:"output"`
		Prefix    *string           `yaml:"prefix,omitempty"`
		Header    string            `yaml:"header,omitempty"`
		Singular  bool              `yaml:"singular,omitempty"`
		Acronyms  []string          `yaml:"acronyms,omitempty"`
		Features  []string          `yaml:"features,omitempty"`
		Disable   []string          `yaml:"disable,omitempty"`
		Types     map[string]string `yaml:"types,omitempty"`
	}
)

// Catalog inspectors.
const (
	InspectorCatalog = "catalog"
	InspectorAtlas   = "atlas"
)

// ReadConfig reads a configuration file. Environment variables in the
// file are expanded before it is decoded.
func ReadConfig(name string) (*Config, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(buf))))
	dec.KnownFields(true)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", name, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return &c, nil
}

// Validate checks the targets of the configuration and names the unnamed ones.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("no targets")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d", c.Jobs)
	}
	var errs []error
	names := make(map[string]struct{}, len(c.Targets))
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Name == "" {
			t.Name = t.Output
		}
		if _, ok := names[t.Name]; ok {
			errs = append(errs, fmt.Errorf("target %d: duplicate name %q", i, t.Name))
		}
		names[t.Name] = struct{}{}
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("target %q: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the target.
func (t *Target) Validate() error {
	switch {
	case t.Output == "":
		return errors.New("missing output directory")
	case t.DSN == "" && t.Snapshot == "":
		return errors.New("one of dsn or snapshot is required")
	case t.DSN != "" && t.Snapshot != "":
		return errors.New("dsn and snapshot are mutually exclusive")
	case t.DSN != "" && t.Driver == "":
		return errors.New("missing driver")
	}
	switch t.Inspector {
	case "", InspectorCatalog, InspectorAtlas:
	default:
		return fmt.Errorf("unknown inspector %q", t.Inspector)
	}
	for _, name := range slices.Concat(t.Features, t.Disable) {
		if _, ok := feature(name); !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
	}
	for name, typ := range t.Types {
		if _, err := ParseGoType(typ); err != nil {
			return fmt.Errorf("type %s: %w", name, err)
		}
	}
	return nil
}

// Options returns the export options of the target. Acronyms are global
// and registered by Config.Register.
func (t *Target) Options(logger *slog.Logger) ([]gen.Option, error) {
	naming := gen.NewNamingStrategy()
	naming.Singular = t.Singular
	types := gen.NewTypeMapper()
	for name, typ := range t.Types {
		info, err := ParseGoType(typ)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", name, err)
		}
		types.OverrideNamed(name, info)
	}
	opts := []gen.Option{
		gen.WithTarget(t.Output),
		gen.WithSchemaPattern(t.Schema),
		gen.WithTablePattern(t.Tables),
		gen.WithNamingStrategy(naming),
		gen.WithTypeMapper(types),
		gen.WithFeatureNames(t.Features...),
		gen.WithLogger(logger.With("target", t.Name)),
	}
	switch pkg := path.Base(filepath.ToSlash(filepath.Clean(t.Output))); {
	case t.Package != "":
		opts = append(opts, gen.WithPackage(t.Package))
	case token.IsIdentifier(pkg):
		opts = append(opts, gen.WithPackage(pkg))
	}
	if t.Prefix != nil {
		opts = append(opts, gen.WithPrefix(*t.Prefix))
	}
	if t.Header != "" {
		opts = append(opts, gen.WithHeader(t.Header))
	}
	for _, name := range t.Disable {
		if f, ok := feature(name); ok {
			opts = append(opts, gen.WithoutFeatures(f))
		}
	}
	return opts, nil
}

// Register registers the acronyms of all targets. It must be called
// before targets are exported concurrently.
func (c *Config) Register() {
	for _, t := range c.Targets {
		for _, a := range t.Acronyms {
			gen.AddAcronym(a)
		}
	}
}

// Watched returns the files whose changes trigger a new export.
func (c *Config) Watched() []string {
	var files []string
	for _, t := range c.Targets {
		if t.Snapshot != "" {
			files = append(files, t.Snapshot)
		}
	}
	return files
}

func feature(name string) (gen.Feature, bool) {
	i := slices.IndexFunc(gen.AllFeatures, func(f gen.Feature) bool { return f.Name == name })
	if i == -1 {
		return gen.Feature{}, false
	}
	return gen.AllFeatures[i], true
}

// ParseGoType parses a Go type reference. Builtin names such as "int64"
// and "[]byte" map to their field type. Other types are written as
// "import/path.Name".
func ParseGoType(s string) (*field.TypeInfo, error) {
	if s == "" {
		return nil, errors.New("empty type")
	}
	for t := field.TypeBool; t.Valid(); t++ {
		if t.String() == s && t != field.TypeEnum {
			return &field.TypeInfo{Type: t}, nil
		}
	}
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 || strings.LastIndex(s, "/") > i {
		return nil, fmt.Errorf("invalid type %q: want import/path.Name", s)
	}
	pkg, name := s[:i], s[i+1:]
	return &field.TypeInfo{
		Type:    field.TypeOther,
		Ident:   path.Base(pkg) + "." + name,
		PkgPath: pkg,
	}, nil
}
