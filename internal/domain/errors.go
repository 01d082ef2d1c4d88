// Package domain contains the error taxonomy raised by application code.
// Domain errors describe what went wrong in business terms, NOT which HTTP
// status to send. The translate package maps them to HTTP outcomes.
package domain

import (
	"errors"
)

// Kind identifies a member of the error taxonomy.
// The string value doubles as the name tag that survives serialization.
type Kind string

// Taxonomy members, listed in classification priority order.
const (
	// KindCredentials indicates missing or invalid credentials.
	KindCredentials Kind = "CredentialsError"

	// KindConcurrency indicates a concurrent modification conflict.
	KindConcurrency Kind = "ConcurrencyError"

	// KindExists indicates the entity already exists.
	KindExists Kind = "ExistsError"

	// KindFormat indicates malformed input.
	KindFormat Kind = "FormatError"

	// KindNotFound indicates the requested entity does not exist.
	KindNotFound Kind = "NotFoundError"

	// KindTempUnavailable indicates a dependency is temporarily unavailable.
	KindTempUnavailable Kind = "TempUnavailableError"

	// KindUnauthorized indicates the caller may not perform the operation.
	KindUnauthorized Kind = "UnauthorizedError"

	// KindValidation indicates input failed business validation.
	KindValidation Kind = "ValidationError"

	// KindUnknown is the catch-all for values outside the taxonomy.
	// It is never raised by constructors in this package.
	KindUnknown Kind = "Unknown"
)

// Sentinel errors for use with errors.Is().
var (
	ErrCredentials     = errors.New("credentials error")
	ErrConcurrency     = errors.New("concurrency error")
	ErrExists          = errors.New("exists error")
	ErrFormat          = errors.New("format error")
	ErrNotFound        = errors.New("not found")
	ErrTempUnavailable = errors.New("temporarily unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("validation failed")
)

// kinds is the taxonomy in priority order. Unknown is excluded.
var kinds = [...]Kind{
	KindCredentials,
	KindConcurrency,
	KindExists,
	KindFormat,
	KindNotFound,
	KindTempUnavailable,
	KindUnauthorized,
	KindValidation,
}

// Kinds returns the named taxonomy members in priority order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds[:])

	return out
}

// ParseKind resolves a name tag to a taxonomy member.
// Returns KindUnknown and false for names outside the taxonomy.
func ParseKind(name string) (Kind, bool) {
	for _, k := range kinds {
		if string(k) == name {
			return k, true
		}
	}

	return KindUnknown, false
}

// DefaultMessage returns the fixed message used when an error omits one.
func DefaultMessage(k Kind) string {
	switch k {
	case KindCredentials:
		return "Valid credentials were not provided."
	case KindConcurrency:
		return "The resource was modified by another request."
	case KindExists:
		return "The resource already exists."
	case KindFormat:
		return "The request was not properly formatted."
	case KindNotFound:
		return "The requested resource could not be found."
	case KindTempUnavailable:
		return "The resource is temporarily unavailable."
	case KindUnauthorized:
		return "You are not authorized to perform this action."
	case KindValidation:
		return "The request failed validation."
	default:
		return "An unspecified error has occurred."
	}
}

// sentinel returns the errors.Is target for a kind.
func sentinel(k Kind) error {
	switch k {
	case KindCredentials:
		return ErrCredentials
	case KindConcurrency:
		return ErrConcurrency
	case KindExists:
		return ErrExists
	case KindFormat:
		return ErrFormat
	case KindNotFound:
		return ErrNotFound
	case KindTempUnavailable:
		return ErrTempUnavailable
	case KindUnauthorized:
		return ErrUnauthorized
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// Error is a taxonomy member carrying an optional message and payload.
type Error struct {
	Kind    Kind
	Message string
	Data    any
}

// Error implements the error interface.
// Falls back to the kind's default message when Message is empty.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return DefaultMessage(e.Kind)
}

// Name returns the kind's name tag.
func (e *Error) Name() string {
	return string(e.Kind)
}

// ErrorData returns the attached payload, or nil.
func (e *Error) ErrorData() any {
	return e.Data
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *Error) Unwrap() error {
	return sentinel(e.Kind)
}

// NewCredentialsError creates a credentials error.
// The challenge becomes the WWW-Authenticate header value, e.g. `Bearer realm="api"`.
func NewCredentialsError(message, challenge string) error {
	return &Error{Kind: KindCredentials, Message: message, Data: challenge}
}

// NewConcurrencyError creates a concurrency error with optional conflict details.
func NewConcurrencyError(message string, data any) error {
	return &Error{Kind: KindConcurrency, Message: message, Data: data}
}

// NewExistsError creates an already-exists error with optional details.
func NewExistsError(message string, data any) error {
	return &Error{Kind: KindExists, Message: message, Data: data}
}

// NewFormatError creates a format error.
func NewFormatError(message string) error {
	return &Error{Kind: KindFormat, Message: message}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewTempUnavailableError creates a temporarily unavailable error.
func NewTempUnavailableError(message string) error {
	return &Error{Kind: KindTempUnavailable, Message: message}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewValidationError creates a validation error.
// Data typically holds field-level details.
func NewValidationError(message string, data any) error {
	return &Error{Kind: KindValidation, Message: message, Data: data}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}

	return KindUnknown, false
}

// Is reports whether err's chain contains a domain error of the given kind.
func Is(err error, k Kind) bool {
	target := sentinel(k)
	if target == nil {
		return false
	}

	return errors.Is(err, target)
}
