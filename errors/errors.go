package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // wire bytes to value tree
	PhaseEncode  Phase = "encode"  // value tree to wire bytes
	PhaseConvert Phase = "convert" // bridging to/from JSON, CBOR, YAML
	PhaseAlloc   Phase = "alloc"   // payload allocation
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated    Kind = "truncated"
	KindOverflow     Kind = "overflow"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindTypeMismatch Kind = "type_mismatch"
	KindUnsupported  Kind = "unsupported"
	KindSinkFailure  Kind = "sink_failure"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Path     []string
	Position int // byte offset in the stream, -1 when unknown
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Position >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Position)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:    phase,
			Kind:     kind,
			Position: -1,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Position sets the byte offset in the stream
func (b *Builder) Position(pos int) *Builder {
	b.err.Position = pos
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Truncated creates an error for a byte stream that ended mid-value
func Truncated(phase Phase, pos int, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTruncated,
		Position: pos,
		Detail:   "stream ended mid-value",
		Cause:    cause,
	}
}

// Overflow creates an error for a varint that exceeds 64 bits
func Overflow(phase Phase, pos int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Position: pos,
		Detail:   "varint exceeds 64 bits",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		Position: -1,
		Detail:   fmt.Sprintf("want %s, got %s", want, got),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidData,
		Path:     path,
		Position: -1,
		Detail:   detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidUTF8,
		Path:     path,
		Position: -1,
		Detail:   fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnsupported,
		Position: -1,
		Detail:   what,
	}
}

// SinkFailure creates an error for a byte sink that rejected a write
func SinkFailure(pos int, cause error) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindSinkFailure,
		Position: pos,
		Detail:   "byte sink rejected write",
		Cause:    cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     kind,
		Position: -1,
		Detail:   detail,
		Cause:    cause,
	}
}
