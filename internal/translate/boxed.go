package translate

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jsamuelsen/errtranslate/internal/domain"
)

// HTTPError is an already-normalized HTTP error. Translating an *HTTPError
// returns the same pointer. An HTTPError value is boxed as a pointer to a
// copy of it.
type HTTPError struct {
	// Kind is the taxonomy member it was built from, if any.
	Kind domain.Kind `json:"kind,omitempty"`

	// Output is what gets sent to the client.
	Output Output `json:"output"`

	// Data mirrors Output.Payload.Data for kinds that carry data.
	Data any `json:"data,omitempty"`
}

// Output is the response description of an HTTPError.
type Output struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Payload    Payload           `json:"payload"`
}

// NewHTTPError creates a boxed error with a JSON content type.
// A nil data is left out of the payload.
func NewHTTPError(statusCode int, message string, data any) *HTTPError {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &HTTPError{
		Output: Output{
			StatusCode: statusCode,
			Headers:    map[string]string{"Content-Type": ContentTypeJSON},
			Payload:    Payload{Message: message, Data: data},
		},
		Data: data,
	}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.Output.Payload.Message
}

// StatusCode returns the HTTP status.
func (e *HTTPError) StatusCode() int {
	return e.Output.StatusCode
}

// ToHTTPError is the boxed adapter: it translates err and returns the result
// as an *HTTPError. An *HTTPError input is returned as-is.
func ToHTTPError(err any) (*HTTPError, error) {
	o, terr := Translate(err)
	if terr != nil {
		return nil, terr
	}

	if o.Boxed != nil {
		return o.Boxed, nil
	}

	var data any
	if o.IncludesData {
		data = o.Data
	}

	boxed := NewHTTPError(o.StatusCode, o.Message, data)
	boxed.Kind = o.Kind

	for name, value := range o.Headers {
		boxed.Output.Headers[displayName(name)] = value
	}

	return boxed, nil
}

// fromBoxed describes an existing HTTPError as an Outcome without
// modifying it.
func fromBoxed(b *HTTPError) *Outcome {
	o := &Outcome{
		Kind:         b.Kind,
		StatusCode:   b.Output.StatusCode,
		Message:      b.Output.Payload.Message,
		Data:         b.Output.Payload.Data,
		IncludesData: b.Output.Payload.Data != nil,
		Headers:      make(map[string]string, len(b.Output.Headers)+1),
		Boxed:        b,
	}

	for name, value := range b.Output.Headers {
		o.Headers[strings.ToLower(name)] = value
	}

	if _, ok := o.Headers[HeaderContentType]; !ok {
		o.Headers[HeaderContentType] = ContentTypeJSON
	}

	if o.Message == "" {
		o.Message = http.StatusText(o.StatusCode)
	}

	return o
}

// displayName maps outcome header names to their conventional spelling.
func displayName(name string) string {
	switch name {
	case HeaderContentType:
		return "Content-Type"
	case HeaderWWWAuthenticate:
		return "WWW-Authenticate"
	default:
		return http.CanonicalHeaderKey(name)
	}
}

// extraHeaders returns header names other than content-type, sorted.
func (o *Outcome) extraHeaders() []string {
	names := make([]string, 0, len(o.Headers))
	for name := range o.Headers {
		if name != HeaderContentType {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}
