package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

type (
	// CodeWriter accumulates the code of one generated file. Class members
	// are collected while the class is open and rendered by EndClass.
	CodeWriter struct {
		name  string
		file  *jen.File
		class *Class
		decls []jen.Code
	}

	// Class is the model of the struct being generated.
	Class struct {
		// Name of the struct.
		Name string
		// Doc comment lines of the struct.
		Doc []string
		// Members in emission order.
		Members []Member
		// Methods in emission order.
		Methods []jen.Code
		names   map[string]struct{}
	}

	// Member is one field of the generated struct.
	Member struct {
		// Name of the field. Empty for embedded fields.
		Name string
		// Type of the field.
		Type jen.Code
		// Init is the constructor expression assigned to the field. Nil
		// leaves the field zero.
		Init jen.Code
		// Doc comment of the field.
		Doc string
	}
)

// NewCodeWriter returns a writer for the named file of the given package.
func NewCodeWriter(name, pkg, header string) *CodeWriter {
	f := jen.NewFile(pkg)
	f.HeaderComment(header)
	return &CodeWriter{name: name, file: f}
}

// Name returns the file name.
func (w *CodeWriter) Name() string {
	return w.name
}

// File returns the underlying jennifer file for free-form code.
func (w *CodeWriter) File() *jen.File {
	return w.file
}

// ImportName registers the package name of an import path.
func (w *CodeWriter) ImportName(path, name string) {
	w.file.ImportName(path, name)
}

// ImportAlias registers an alias for an import path.
func (w *CodeWriter) ImportAlias(path, alias string) {
	w.file.ImportAlias(path, alias)
}

// BeginClass opens a class.
func (w *CodeWriter) BeginClass(name string, doc ...string) error {
	if w.class != nil {
		return fmt.Errorf("class %s is still open", w.class.Name)
	}
	w.class = &Class{Name: name, Doc: doc, names: make(map[string]struct{})}
	return nil
}

// Class returns the open class, or nil.
func (w *CodeWriter) Class() *Class {
	return w.class
}

// Member adds a field to the open class.
func (w *CodeWriter) Member(m Member) error {
	if err := w.claim(m.Name); err != nil {
		return err
	}
	w.class.Members = append(w.class.Members, m)
	return nil
}

// Method adds a method named name to the open class.
func (w *CodeWriter) Method(name string, code jen.Code) error {
	if err := w.claim(name); err != nil {
		return err
	}
	w.class.Methods = append(w.class.Methods, code)
	return nil
}

func (w *CodeWriter) claim(name string) error {
	if w.class == nil {
		return errors.New("no open class")
	}
	if name == "" {
		return nil
	}
	if _, ok := w.class.names[name]; ok {
		return fmt.Errorf("duplicate member %s.%s", w.class.Name, name)
	}
	w.class.names[name] = struct{}{}
	return nil
}

// Decl adds a package-level declaration written after the class.
func (w *CodeWriter) Decl(code jen.Code) {
	w.decls = append(w.decls, code)
}

// EndClass closes the open class. It adds the code returned by render,
// the class methods and the pending declarations to the file, in that order.
func (w *CodeWriter) EndClass(render func(*Class) []jen.Code) error {
	if w.class == nil {
		return errors.New("no open class")
	}
	for _, c := range render(w.class) {
		w.file.Add(c).Line()
	}
	for _, m := range w.class.Methods {
		w.file.Add(m).Line()
	}
	for _, d := range w.decls {
		w.file.Add(d).Line()
	}
	w.class, w.decls = nil, nil
	return nil
}

// HasMember reports if the open class has a member or method with the given name.
func (c *Class) HasMember(name string) bool {
	_, ok := c.names[name]
	return ok
}

// FormatError is returned when generated code cannot be rendered or
// formatted. Source holds the unformatted output.
type FormatError struct {
	Source []byte
	Err    error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return "format: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Bytes renders the file and formats it with goimports.
func (w *CodeWriter) Bytes() ([]byte, error) {
	if w.class != nil {
		return nil, fmt.Errorf("class %s is still open", w.class.Name)
	}
	var buf bytes.Buffer
	if err := w.file.Render(&buf); err != nil {
		// jennifer includes the unformatted source in its error.
		return nil, &FormatError{Source: []byte(err.Error()), Err: err}
	}
	out, err := imports.Process(w.name, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, &FormatError{Source: buf.Bytes(), Err: err}
	}
	return out, nil
}

// Sink creates the output targets of generated files.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes files into a directory.
type DirSink string

// Prepare creates the directory.
func (d DirSink) Prepare() error {
	return os.MkdirAll(string(d), 0o755)
}

// Create implements Sink.
func (d DirSink) Create(name string) (io.WriteCloser, error) {
	path := filepath.Join(string(d), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// MemSink keeps files in memory. It is safe for concurrent use.
type MemSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemSink returns an empty MemSink.
func NewMemSink() *MemSink {
	return &MemSink{files: make(map[string][]byte)}
}

// Create implements Sink. The content is stored on Close.
func (m *MemSink) Create(name string) (io.WriteCloser, error) {
	return &memFile{sink: m, name: name}, nil
}

// File returns the content of the named file.
func (m *MemSink) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	return b, ok
}

// Files returns the sorted names of the stored files.
func (m *MemSink) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type memFile struct {
	bytes.Buffer
	sink *MemSink
	name string
}

func (f *memFile) Close() error {
	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	f.sink.files[f.name] = slices.Clone(f.Bytes())
	return nil
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// writeFile formats the writer output and writes it through the sink. On a
// format failure the unformatted source is written next to it with an
// ".error" suffix.
func writeFile(sink Sink, w *CodeWriter, m *WriterMetrics) (err error) {
	start := time.Now()
	out, err := w.Bytes()
	m.FormatTime += time.Since(start)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			debug := w.Name() + ".error"
			// Errors intentionally ignored as we're already in error state.
			if f, cerr := sink.Create(debug); cerr == nil {
				_, _ = f.Write(fe.Source)
				_ = f.Close()
			}
			return fmt.Errorf("%w (unformatted written to %s)", err, debug)
		}
		return err
	}
	start = time.Now()
	f, err := sink.Create(w.Name())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		m.WriteTime += time.Since(start)
	}()
	n, err := f.Write(out)
	if err != nil {
		return err
	}
	m.FilesGenerated++
	m.TotalBytes += int64(n)
	return nil
}
