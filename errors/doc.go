// Package errors provides structured error types for the pson library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes a field path into the document and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		Path("config", "sensors").
//		Detail("stream ended inside a %d byte object", 42).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseDecode, pos, cause)
//	err := errors.TypeMismatch(errors.PhaseConvert, path, "string", "array")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
