package persist

import "errors"

var (
	// ErrTypeMismatch is returned when a record's type tag does not match its field.
	ErrTypeMismatch = errors.New("property type mismatch")
	// ErrInvalidValue is returned when a record's value cannot be parsed.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrUnsupportedVersion is returned for documents written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)
