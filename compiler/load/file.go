package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is the encoding of a snapshot file.
type Format string

// Snapshot formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the snapshot format implied by a file name.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Marshal encodes the catalog in the given format.
func (c *Catalog) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatMsgpack:
		return msgpack.Marshal(c)
	case FormatJSON, "":
		return json.MarshalIndent(c, "", "  ")
	default:
		return nil, fmt.Errorf("load: unknown snapshot format %q", f)
	}
}

// Unmarshal decodes a catalog encoded in the given format.
func Unmarshal(buf []byte, f Format) (*Catalog, error) {
	c := &Catalog{}
	var err error
	switch f {
	case FormatMsgpack:
		err = msgpack.Unmarshal(buf, c)
	case FormatJSON, "":
		err = json.Unmarshal(buf, c)
	default:
		err = fmt.Errorf("unknown snapshot format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode snapshot: %w", err)
	}
	return c, nil
}

// WriteFile writes the catalog to the named file, encoded according to
// the file extension.
func (c *Catalog) WriteFile(name string) error {
	buf, err := c.Marshal(FormatOf(name))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("load: create snapshot dir: %w", err)
	}
	if err := os.WriteFile(name, buf, 0o644); err != nil {
		return fmt.Errorf("load: write snapshot: %w", err)
	}
	return nil
}

// ReadFile reads a catalog snapshot written by WriteFile.
func ReadFile(name string) (*Catalog, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("load: read snapshot: %w", err)
	}
	return Unmarshal(buf, FormatOf(name))
}
