package gen

import (
	"fmt"
	"slices"
)

// Step identifies an extension point of the serializer. Steps always run
// in declaration order.
type Step int

// Serializer steps.
const (
	StepImports Step = iota
	StepClassHeader
	StepProperties
	StepKeyAccessors
	StepOutro
	numSteps
)

var stepNames = [...]string{
	StepImports:      "imports",
	StepClassHeader:  "class header",
	StepProperties:   "properties",
	StepKeyAccessors: "key accessors",
	StepOutro:        "outro",
}

// String returns the step name.
func (s Step) String() string {
	if s >= 0 && s < numSteps {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

type (
	// Context is passed to every step of one type serialization.
	Context struct {
		Config *Config
		Graph  *Graph
		Type   *Type
		Writer *CodeWriter
	}

	// Emitter emits the code of one step.
	Emitter interface {
		Emit(*Context) error
	}

	// EmitFunc is an adapter to allow the use of ordinary functions as Emitter.
	EmitFunc func(*Context) error

	// Hook wraps the emitter of a step. A hook is expected to call the
	// wrapped emitter and add its own code before or after it.
	Hook func(Emitter) Emitter

	// Steps holds the base emitters of a serializer. Nil steps emit nothing.
	Steps struct {
		Imports      Emitter
		ClassHeader  Emitter
		Properties   Emitter
		KeyAccessors Emitter
		Outro        Emitter
	}
)

// Emit calls f(c).
func (f EmitFunc) Emit(c *Context) error {
	return f(c)
}

// Serializer renders one type through the fixed step sequence.
type Serializer struct {
	steps [numSteps]Emitter
	hooks [numSteps][]Hook
}

// NewSerializer returns a serializer running the given base steps.
func NewSerializer(s Steps) *Serializer {
	return &Serializer{
		steps: [numSteps]Emitter{
			StepImports:      s.Imports,
			StepClassHeader:  s.ClassHeader,
			StepProperties:   s.Properties,
			StepKeyAccessors: s.KeyAccessors,
			StepOutro:        s.Outro,
		},
	}
}

// Use registers hooks for a step. Hooks wrap in registration order: the
// first registered hook is the outermost.
func (s *Serializer) Use(step Step, hooks ...Hook) *Serializer {
	if step < 0 || step >= numSteps {
		panic(fmt.Sprintf("gen: invalid serializer step %d", step))
	}
	s.hooks[step] = append(s.hooks[step], hooks...)
	return s
}

// Clone returns a copy of the serializer. Hooks registered on the copy do
// not affect the original.
func (s *Serializer) Clone() *Serializer {
	c := &Serializer{steps: s.steps}
	for i := range s.hooks {
		c.hooks[i] = slices.Clone(s.hooks[i])
	}
	return c
}

// Serialize runs every step for c.Type.
func (s *Serializer) Serialize(c *Context) error {
	for step := range numSteps {
		if err := s.emitter(step).Emit(c); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

// emitter returns the base emitter of step wrapped by its hooks.
func (s *Serializer) emitter(step Step) Emitter {
	var e Emitter = s.steps[step]
	if e == nil {
		e = EmitFunc(func(*Context) error { return nil })
	}
	for i := len(s.hooks[step]) - 1; i >= 0; i-- {
		e = s.hooks[step][i](e)
	}
	return e
}

// Append returns a hook that runs e after the wrapped emitter.
func Append(e Emitter) Hook {
	return func(next Emitter) Emitter {
		return EmitFunc(func(c *Context) error {
			if err := next.Emit(c); err != nil {
				return err
			}
			return e.Emit(c)
		})
	}
}

// Prepend returns a hook that runs e before the wrapped emitter.
func Prepend(e Emitter) Hook {
	return func(next Emitter) Emitter {
		return EmitFunc(func(c *Context) error {
			if err := e.Emit(c); err != nil {
				return err
			}
			return next.Emit(c)
		})
	}
}
