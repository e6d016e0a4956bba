package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of an export run.
var (
	// ErrIntrospection indicates the catalog could not be read. Fatal.
	ErrIntrospection = errors.New("qgen: catalog introspection failed")
	// ErrUnresolvedForeignKey indicates a foreign key whose target is not
	// part of the run. The key is dropped and the run continues.
	ErrUnresolvedForeignKey = errors.New("qgen: unresolved foreign key")
	// ErrNamingCollision indicates no unique identifier could be derived.
	// The affected table is skipped and the run continues.
	ErrNamingCollision = errors.New("qgen: naming collision")
	// ErrEmptyTable indicates a table without columns. It is skipped.
	ErrEmptyTable = errors.New("qgen: table has no columns")
	// ErrSerialization indicates a generated file could not be rendered
	// or written. Fatal.
	ErrSerialization = errors.New("qgen: serialization failed")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("qgen: missing configuration")
)

// IntrospectionError represents a failure of the metadata-access protocol.
type IntrospectionError struct {
	Table  string
	Column string
	Op     string
	Cause  error
}

// Error implements the error interface.
func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("qgen: introspection error")
	if e.Op != "" {
		b.WriteString(" reading ")
		b.WriteString(e.Op)
	}
	if e.Table != "" {
		b.WriteString(" of table ")
		b.WriteString(e.Table)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IntrospectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IntrospectionError.
func (e *IntrospectionError) Is(target error) bool {
	return target == ErrIntrospection
}

// NewIntrospectionError creates a new IntrospectionError.
func NewIntrospectionError(table, op string, cause error) *IntrospectionError {
	return &IntrospectionError{Table: table, Op: op, Cause: cause}
}

// UnresolvedForeignKeyError represents a foreign key that references a
// table or column outside the run.
type UnresolvedForeignKeyError struct {
	Table      string
	Constraint string
	RefTable   string
	RefColumn  string // set when the table resolved but the column did not
	Reason     string
}

// Error implements the error interface.
func (e *UnresolvedForeignKeyError) Error() string {
	var b strings.Builder
	b.WriteString("qgen: unresolved foreign key")
	if e.Constraint != "" {
		b.WriteString(" ")
		b.WriteString(e.Constraint)
	}
	fmt.Fprintf(&b, " on table %s", e.Table)
	switch {
	case e.RefColumn != "":
		fmt.Fprintf(&b, ": column %s.%s is not in the run", e.RefTable, e.RefColumn)
	case e.Reason != "":
		fmt.Fprintf(&b, ": %s", e.Reason)
	default:
		fmt.Fprintf(&b, ": table %s is not in the run", e.RefTable)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnresolvedForeignKeyError.
func (e *UnresolvedForeignKeyError) Is(target error) bool {
	return target == ErrUnresolvedForeignKey
}

// NamingCollisionError represents an identifier that stayed ambiguous
// after disambiguation.
type NamingCollisionError struct {
	Table  string
	Column string // empty for class or key names
	Name   string
}

// Error implements the error interface.
func (e *NamingCollisionError) Error() string {
	var b strings.Builder
	b.WriteString("qgen: naming collision on table ")
	b.WriteString(e.Table)
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	fmt.Fprintf(&b, ": no unique identifier for %q", e.Name)
	return b.String()
}

// Is reports whether the target matches the sentinel error for NamingCollisionError.
func (e *NamingCollisionError) Is(target error) bool {
	return target == ErrNamingCollision
}

// EmptyTableError represents a table the catalog reported no columns for.
type EmptyTableError struct {
	Table string
}

// Error implements the error interface.
func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("qgen: table %s has no columns", e.Table)
}

// Is reports whether the target matches the sentinel error for EmptyTableError.
func (e *EmptyTableError) Is(target error) bool {
	return target == ErrEmptyTable
}

// SerializationError represents a failure rendering or writing a file.
type SerializationError struct {
	Type    string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	var b strings.Builder
	b.WriteString("qgen: serialization error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SerializationError.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(typeName, file, message string, cause error) *SerializationError {
	return &SerializationError{
		Type:    typeName,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("qgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("qgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsIntrospectionError reports whether the error is an IntrospectionError.
func IsIntrospectionError(err error) bool {
	var ie *IntrospectionError
	return errors.As(err, &ie)
}

// IsUnresolvedForeignKeyError reports whether the error is an UnresolvedForeignKeyError.
func IsUnresolvedForeignKeyError(err error) bool {
	var fe *UnresolvedForeignKeyError
	return errors.As(err, &fe)
}

// IsNamingCollisionError reports whether the error is a NamingCollisionError.
func IsNamingCollisionError(err error) bool {
	var ne *NamingCollisionError
	return errors.As(err, &ne)
}

// IsSerializationError reports whether the error is a SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Diagnostic is a non-fatal problem found during a run. The affected
// table or key was skipped and the run went on.
type Diagnostic struct {
	Table string
	Err   error
}

// String returns the diagnostic message.
func (d Diagnostic) String() string {
	return d.Err.Error()
}

// Fatal reports whether err aborts an export run.
func Fatal(err error) bool {
	return errors.Is(err, ErrIntrospection) || errors.Is(err, ErrSerialization) || errors.Is(err, ErrMissingConfig)
}
