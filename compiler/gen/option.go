package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"slices"
	"strings"
)

// Option configures an export run.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/qmodel".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if name := pkg[strings.LastIndex(pkg, "/")+1:]; !token.IsIdentifier(name) {
			return NewConfigError("Package", pkg, "last path element must be a valid package name")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPrefix sets the class-name prefix. An empty prefix is allowed and
// generates bare class names.
func WithPrefix(prefix string) Option {
	return func(c *Config) error {
		if prefix != "" && !token.IsIdentifier(prefix) {
			return NewConfigError("Prefix", prefix, "prefix must be a valid Go identifier")
		}
		c.Prefix = prefix
		return nil
	}
}

// WithSchemaPattern restricts the run to schemas matching the SQL LIKE pattern.
func WithSchemaPattern(pattern string) Option {
	return func(c *Config) error {
		c.SchemaPattern = pattern
		return nil
	}
}

// WithTablePattern restricts the run to tables matching the SQL LIKE pattern.
func WithTablePattern(pattern string) Option {
	return func(c *Config) error {
		c.TablePattern = pattern
		return nil
	}
}

// WithNamingStrategy sets the naming strategy.
func WithNamingStrategy(n NamingStrategy) Option {
	return func(c *Config) error {
		if n == nil {
			return NewConfigError("NamingStrategy", nil, "naming strategy cannot be nil")
		}
		c.Naming = n
		return nil
	}
}

// WithTypeMapper sets the type mapper.
func WithTypeMapper(m TypeMapper) Option {
	return func(c *Config) error {
		if m == nil {
			return NewConfigError("TypeMapper", nil, "type mapper cannot be nil")
		}
		c.Types = m
		return nil
	}
}

// WithSerializer sets the serializer.
func WithSerializer(s *Serializer) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Serializer", nil, "serializer cannot be nil")
		}
		c.Serializer = s
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == f.Name }) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables specific features, including default ones.
func WithoutFeatures(features ...Feature) Option {
	return func(c *Config) error {
		if c.Features == nil {
			c.Features = defaultFeatures()
		}
		c.Features = slices.DeleteFunc(c.Features, func(e Feature) bool {
			return slices.ContainsFunc(features, func(f Feature) bool { return e.Name == f.Name })
		})
		return nil
	}
}

// WithFeatureNames enables features by name. Unknown names are an error.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			i := slices.IndexFunc(AllFeatures, func(f Feature) bool { return f.Name == name })
			if i == -1 {
				return NewConfigError("Features", name, "unknown feature")
			}
			if err := WithFeatures(AllFeatures[i])(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithLogger sets the logger that receives the run summary and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithSink sets the sink that receives the generated files.
func WithSink(s Sink) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Sink", nil, "sink cannot be nil")
		}
		c.Sink = s
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the default features enabled and
// the given options applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Prefix: DefaultPrefix, Features: defaultFeatures()}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
