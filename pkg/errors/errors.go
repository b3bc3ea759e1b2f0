// Package errors implements the error taxonomy shared by every CORE
// component: a single tagged type carrying enough structure for a caller to
// decide whether to surface, retry, or skip.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies which row of the taxonomy an Error belongs to.
type Kind string

const (
	KindFileNotFound     Kind = "FILE_NOT_FOUND"
	KindFileTooLarge     Kind = "FILE_TOO_LARGE"
	KindInvalidFormat    Kind = "INVALID_FORMAT"
	KindParsingError     Kind = "PARSING_ERROR"
	KindSpatialExtract   Kind = "SPATIAL_EXTRACTION_ERROR"
	KindDeserialization  Kind = "DESERIALIZATION_ERROR"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindPathUnsafe       Kind = "PATH_UNSAFE"
	KindGit              Kind = "GIT_ERROR"
	KindEnvironment      Kind = "ENVIRONMENT_ERROR"
)

// Error is the single error type produced by every CORE package.
type Error struct {
	Kind          Kind
	Message       string
	Path          string
	Line          int
	Suggestions   []string
	RecoveryHints []string
	Err           error
}

func (e *Error) Error() string {
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Kind, e.Message, e.Path, e.Line)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithSuggestions attaches 1-3 remediation hints, per the user-visible
// behavior contract (one-line cause plus suggested remediations).
func (e *Error) WithSuggestions(s ...string) *Error {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func FileNotFound(path string) *Error {
	return &Error{Kind: KindFileNotFound, Message: "file not found", Path: path,
		Suggestions: []string{"check the path is correct", "verify the file was not moved or deleted"}}
}

func FileTooLarge(path string, size, max int64) *Error {
	return &Error{
		Kind:        KindFileTooLarge,
		Message:     fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", size, max),
		Path:        path,
		Suggestions: []string{"split the source file", "raise the configured size limit if appropriate"},
	}
}

func InvalidFormat(path, reason string) *Error {
	return &Error{Kind: KindInvalidFormat, Message: reason, Path: path}
}

func ParsingError(path string, line int, message string) *Error {
	return &Error{Kind: KindParsingError, Message: message, Path: path, Line: line}
}

func SpatialExtraction(entityID string) *Error {
	return &Error{Kind: KindSpatialExtract, Message: fmt.Sprintf("missing or invalid placement for entity %s", entityID)}
}

func Deserialization(reason string) *Error {
	return &Error{Kind: KindDeserialization, Message: reason}
}

func ValidationFailed(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: fmt.Sprintf("%s: %s", field, message)}
}

func PathUnsafe(path string) *Error {
	return &Error{Kind: KindPathUnsafe, Message: "path escapes working directory", Path: path}
}

func GitError(message string, err error) *Error {
	return &Error{Kind: KindGit, Message: message, Err: err}
}

func EnvironmentError(variable, message string) *Error {
	return &Error{Kind: KindEnvironment, Message: fmt.Sprintf("%s: %s", variable, message)}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
