package codegen

import (
	"errors"
	"fmt"

	"github.com/mark3labs/oapigen/internal/input"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes document construction failures. Every code is fatal:
// construction stops and no partial document is returned.
type ErrorCode string

const (
	// UnsupportedConstruct marks input the model cannot represent, such as
	// anyOf composition or an unknown schema type.
	UnsupportedConstruct ErrorCode = "UnsupportedConstruct"
	// NamingDeadlock means the generator's iterated-name hook repeated itself.
	NamingDeadlock ErrorCode = "NamingDeadlock"
	// MissingReference means a $ref could not be resolved.
	MissingReference ErrorCode = "MissingReference"
	// InvalidConfiguration means a generator hook asked for something the
	// core cannot honour.
	InvalidConfiguration ErrorCode = "InvalidConfiguration"
)

var (
	ErrUnsupported          = errors.New("unsupported construct")
	ErrNamingDeadlock       = errors.New("naming deadlock")
	ErrMissingReference     = errors.New("missing reference")
	ErrInvalidConfiguration = errors.New("invalid generator configuration")
)

// BuildError reports the offending node of a failed document construction.
type BuildError struct {
	Code     ErrorCode
	Message  string
	Pointer  string // JSON pointer of the node being processed
	Position string // line:column in the input, when known
	Cause    error
}

func (e *BuildError) Error() string {
	msg := e.Message
	if e.Pointer != "" {
		msg = fmt.Sprintf("%s (at %s", msg, e.Pointer)
		if e.Position != "" {
			msg += " line " + e.Position
		}
		msg += ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error { return e.Cause }

// Is matches the sentinel error for e's code.
func (e *BuildError) Is(target error) bool {
	switch e.Code {
	case UnsupportedConstruct:
		return target == ErrUnsupported
	case NamingDeadlock:
		return target == ErrNamingDeadlock
	case MissingReference:
		return target == ErrMissingReference
	case InvalidConfiguration:
		return target == ErrInvalidConfiguration
	}
	return false
}

func newBuildError(code ErrorCode, pointer string, node *yaml.Node, format string, args ...any) *BuildError {
	return &BuildError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pointer:  pointer,
		Position: input.Where(node),
	}
}

func unsupported(pointer string, node *yaml.Node, format string, args ...any) *BuildError {
	return newBuildError(UnsupportedConstruct, pointer, node, format, args...)
}
