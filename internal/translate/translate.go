// Package translate converts domain errors into normalized HTTP outcomes.
//
// Classification happens once, in Translate. The two output adapters are thin
// formatters over its result:
//
//   - ToReply hands the payload to a caller-supplied reply builder and
//     configures content type, status code, and extra headers on it.
//   - ToHTTPError returns a boxed *HTTPError for frameworks that consume a
//     value instead of building a reply.
//
// Translation is pure. The rule table is read-only, so every function here is
// safe for concurrent use.
//
// Misuse of the translator (non-object input, nil input, nil reply builder,
// CredentialsError without a string challenge) is reported as *ArgumentError,
// which wraps ErrInvalidArgument. Misuse never becomes a 5xx outcome.
package translate

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/jsamuelsen/errtranslate/internal/domain"
)

// ContentTypeJSON is set on every outcome.
const ContentTypeJSON = "application/json"

// Header names used in outcomes.
const (
	HeaderContentType     = "content-type"
	HeaderWWWAuthenticate = "www-authenticate"
)

// ErrInvalidArgument indicates the translator was called incorrectly.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes a precondition violation.
type ArgumentError struct {
	Argument string
	Reason   string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("the argument %q %s", e.Argument, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Payload is the JSON body of an outcome.
type Payload struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Outcome is the normalized result of translating one error.
type Outcome struct {
	// Kind is the matched taxonomy member. Empty for boxed pass-through.
	Kind domain.Kind

	// StatusCode is the HTTP status.
	StatusCode int

	// Message is never empty.
	Message string

	// Data is the pass-through payload. Only meaningful when IncludesData is set.
	Data any

	// IncludesData reports whether the payload carries a data field.
	IncludesData bool

	// Headers maps lowercase header names to values.
	// Always contains content-type.
	Headers map[string]string

	// Boxed is set when the input was already an *HTTPError.
	Boxed *HTTPError
}

// Payload returns the JSON body for the outcome.
func (o *Outcome) Payload() Payload {
	p := Payload{Message: o.Message}
	if o.IncludesData {
		p.Data = o.Data
	}

	return p
}

// Translate classifies err and builds its outcome.
func Translate(err any) (*Outcome, error) {
	s, ierr := inspect(err)
	if ierr != nil {
		return nil, ierr
	}

	return classify(s)
}

// subject is the normalized view of an error-like input.
type subject struct {
	identity domain.Kind
	name     string
	message  string
	data     any
	boxed    *HTTPError
}

// named is implemented by errors that carry a kind name tag.
type named interface {
	Name() string
}

// dataCarrier is implemented by errors that carry a payload.
type dataCarrier interface {
	ErrorData() any
}

// inspect validates the input shape and extracts kind, message, and data.
func inspect(v any) (*subject, error) {
	if !isObject(v) {
		return nil, &ArgumentError{Argument: "err", Reason: "must be an object"}
	}

	if isNil(v) {
		return nil, &ArgumentError{Argument: "err", Reason: "cannot be null"}
	}

	switch x := v.(type) {
	case error:
		return fromError(x), nil
	case HTTPError:
		return &subject{boxed: &x}, nil
	case map[string]any:
		return fromMap(x), nil
	}

	return fromValue(v), nil
}

func fromError(err error) *subject {
	var boxed *HTTPError
	if errors.As(err, &boxed) {
		return &subject{boxed: boxed}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return &subject{
			identity: de.Kind,
			name:     de.Name(),
			message:  de.Message,
			data:     de.Data,
		}
	}

	s := &subject{message: err.Error()}

	var n named
	if errors.As(err, &n) {
		s.name = n.Name()
	}

	var dc dataCarrier
	if errors.As(err, &dc) {
		s.data = dc.ErrorData()
	}

	return s
}

// fromMap reads a decoded JSON object. "kind" is the discriminator and
// "name" the fallback tag.
func fromMap(m map[string]any) *subject {
	s := &subject{
		name:    stringField(reflect.ValueOf(m["name"])),
		message: stringField(reflect.ValueOf(m["message"])),
		data:    m["data"],
	}

	if k := stringField(reflect.ValueOf(m["kind"])); k != "" {
		s.identity, _ = domain.ParseKind(k)
	}

	return s
}

// fromValue reads structs and string-keyed maps by field name.
func fromValue(v any) *subject {
	s := &subject{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	field := func(name string) reflect.Value {
		switch rv.Kind() {
		case reflect.Struct:
			f := rv.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return f
			}
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				return rv.MapIndex(reflect.ValueOf(lowerFirst(name)).Convert(rv.Type().Key()))
			}
		}

		return reflect.Value{}
	}

	if f := stringField(field("Kind")); f != "" {
		s.identity, _ = domain.ParseKind(f)
	}

	s.name = stringField(field("Name"))
	s.message = stringField(field("Message"))

	if f := field("Data"); f.IsValid() && f.CanInterface() {
		s.data = f.Interface()
	}

	if n, ok := v.(named); ok {
		s.name = n.Name()
	}

	if dc, ok := v.(dataCarrier); ok {
		s.data = dc.ErrorData()
	}

	return s
}

func stringField(f reflect.Value) string {
	for f.IsValid() && f.Kind() == reflect.Interface {
		f = f.Elem()
	}

	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}

	return f.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return string(s[0]|0x20) + s[1:]
}

// isObject reports whether v is a keyed structure. nil counts as an object
// so that it reaches the null check.
func isObject(v any) bool {
	if v == nil {
		return true
	}

	if _, ok := v.(error); ok {
		return true
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct || t.Kind() == reflect.Map
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// classify applies the rule table to an inspected subject.
func classify(s *subject) (*Outcome, error) {
	if s.boxed != nil {
		return fromBoxed(s.boxed), nil
	}

	rule := match(s)

	o := &Outcome{
		Kind:       rule.Kind,
		StatusCode: rule.StatusCode,
		Message:    s.message,
		Headers:    map[string]string{HeaderContentType: ContentTypeJSON},
	}

	if o.Message == "" {
		o.Message = rule.DefaultMessage
	}

	if rule.RequiresChallenge {
		challenge, ok := s.data.(string)
		if !ok {
			return nil, &ArgumentError{
				Argument: "err.data",
				Reason:   "must be a string challenge for " + string(rule.Kind),
			}
		}

		o.Headers[HeaderWWWAuthenticate] = challenge
	}

	if rule.CarriesData {
		o.IncludesData = true
		o.Data = s.data

		if o.Data == nil {
			o.Data = map[string]any{}
		}
	}

	return o, nil
}
