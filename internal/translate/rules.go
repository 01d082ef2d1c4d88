package translate

import (
	"net/http"

	"github.com/jsamuelsen/errtranslate/internal/domain"
)

// Rule describes how one taxonomy member maps to an HTTP outcome.
type Rule struct {
	// Kind is the taxonomy member this rule matches.
	Kind domain.Kind `json:"kind"`

	// StatusCode is the HTTP status sent for this kind.
	StatusCode int `json:"statusCode"`

	// DefaultMessage replaces an absent or empty error message.
	DefaultMessage string `json:"defaultMessage"`

	// CarriesData reports whether the error's data is part of the payload.
	// Absent data is sent as an empty object.
	CarriesData bool `json:"carriesData"`

	// RequiresChallenge reports whether the error's data must be a string
	// that becomes the www-authenticate header.
	RequiresChallenge bool `json:"requiresChallenge"`
}

// rules is evaluated top to bottom; the first match wins.
var rules = [...]Rule{
	{
		Kind:              domain.KindCredentials,
		StatusCode:        http.StatusUnauthorized,
		DefaultMessage:    domain.DefaultMessage(domain.KindCredentials),
		RequiresChallenge: true,
	},
	{
		Kind:           domain.KindConcurrency,
		StatusCode:     http.StatusConflict,
		DefaultMessage: domain.DefaultMessage(domain.KindConcurrency),
		CarriesData:    true,
	},
	{
		Kind:           domain.KindExists,
		StatusCode:     http.StatusConflict,
		DefaultMessage: domain.DefaultMessage(domain.KindExists),
		CarriesData:    true,
	},
	{
		Kind:           domain.KindFormat,
		StatusCode:     http.StatusBadRequest,
		DefaultMessage: domain.DefaultMessage(domain.KindFormat),
	},
	{
		Kind:           domain.KindNotFound,
		StatusCode:     http.StatusNotFound,
		DefaultMessage: domain.DefaultMessage(domain.KindNotFound),
	},
	{
		Kind:           domain.KindTempUnavailable,
		StatusCode:     http.StatusServiceUnavailable,
		DefaultMessage: domain.DefaultMessage(domain.KindTempUnavailable),
	},
	{
		Kind:           domain.KindUnauthorized,
		StatusCode:     http.StatusForbidden,
		DefaultMessage: domain.DefaultMessage(domain.KindUnauthorized),
	},
	{
		Kind:           domain.KindValidation,
		StatusCode:     http.StatusBadRequest,
		DefaultMessage: domain.DefaultMessage(domain.KindValidation),
		CarriesData:    true,
	},
}

var unknownRule = Rule{
	Kind:           domain.KindUnknown,
	StatusCode:     http.StatusInternalServerError,
	DefaultMessage: domain.DefaultMessage(domain.KindUnknown),
}

// Rules returns a copy of the mapping table in priority order,
// followed by the Unknown fallback.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules)+1)
	out = append(out, rules[:]...)

	return append(out, unknownRule)
}

// RuleFor returns the rule for a kind, or the Unknown fallback.
func RuleFor(k domain.Kind) Rule {
	for _, r := range rules {
		if r.Kind == k {
			return r
		}
	}

	return unknownRule
}

// match returns the first rule whose kind equals the subject's identity
// or name tag.
func match(s *subject) Rule {
	for _, r := range rules {
		if s.identity == r.Kind || s.name == string(r.Kind) {
			return r
		}
	}

	return unknownRule
}
