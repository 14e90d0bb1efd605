package document

import "fmt"

// ErrorKind classifies schema parse failures.
type ErrorKind string

const (
	ErrMalformedSchema ErrorKind = "MALFORMED_SCHEMA"
	ErrUnknownKey      ErrorKind = "UNKNOWN_KEY"
	ErrTypeMismatch    ErrorKind = "TYPE_MISMATCH"
	ErrMissingField    ErrorKind = "MISSING_FIELD"
)

// ParseError describes why a rule document could not be decoded. Path points
// at the offending fragment (e.g. "and[2].value.at_least"). An invalid rule
// always surfaces as an error at parse time; it is never silently treated as
// matching everything or nothing.
type ParseError struct {
	Kind    ErrorKind
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse failed [%s]: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("parse failed [%s] at %s: %s", e.Kind, e.Path, e.Message)
}

// NewParseError builds a ParseError with a formatted message.
func NewParseError(kind ErrorKind, path, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}
