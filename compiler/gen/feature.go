package gen

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// FeatureDefaultInstances emits a package-level variable holding one
	// instance of each query type, aliased by its table name.
	FeatureDefaultInstances = Feature{
		Name:        "instances",
		Stage:       Stable,
		Default:     true,
		Description: "DefaultInstances emits a package-level default instance for each query type",
	}

	// FeatureInverseForeignKeys emits accessors on the referenced type for
	// every foreign key pointing at it.
	FeatureInverseForeignKeys = Feature{
		Name:        "inversekeys",
		Stage:       Beta,
		Default:     false,
		Description: "InverseForeignKeys emits accessors for foreign keys referencing a type",
	}

	// FeatureAllPaths emits a Paths method listing every column path of a type.
	FeatureAllPaths = Feature{
		Name:        "allpaths",
		Stage:       Experimental,
		Default:     false,
		Description: "AllPaths emits a Paths method returning all column paths of a type",
	}

	// FeatureCleanStale removes generated files of tables that are no longer
	// part of the export from the target directory.
	FeatureCleanStale = Feature{
		Name:        "cleanstale",
		Stage:       Alpha,
		Default:     false,
		Description: "CleanStale removes previously generated files whose table left the export",
		after:       cleanStale,
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureDefaultInstances,
		FeatureInverseForeignKeys,
		FeatureAllPaths,
		FeatureCleanStale,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished,
	// but we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features that were documented, and no
	// breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "invalid"
	}
}

// A Feature of the qgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// after runs once all files of an export were written.
	after func(*Config, *Result) error
}

// defaultFeatures returns the features enabled by default.
func defaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// cleanStale deletes files in the output directory that carry the
// generated-code header but were not written by this run. It only applies
// to directory sinks.
func cleanStale(c *Config, r *Result) error {
	d, ok := c.Sink.(DirSink)
	if !ok {
		return nil
	}
	dir := string(d)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || slices.Contains(r.Files, name) {
			continue
		}
		generated, err := hasHeader(filepath.Join(dir, name), c.HeaderComment())
		if err != nil {
			return err
		}
		if !generated {
			continue
		}
		if err := remove(dir, name); err != nil {
			return err
		}
		r.Removed = append(r.Removed, name)
	}
	return nil
}

// hasHeader reports whether the first line of the file is the given header comment.
func hasHeader(path, header string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	if !s.Scan() {
		return false, s.Err()
	}
	return strings.TrimSpace(strings.TrimPrefix(s.Text(), "//")) == header, nil
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
