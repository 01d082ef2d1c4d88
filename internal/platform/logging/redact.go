package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// redactedFields are attribute names whose values never reach a log sink.
// Replayed errors carry client-supplied data and credentials challenges.
var redactedFields = []string{
	"authorization",
	"cookie",
	"password",
	"token",
	"access_token",
	"refresh_token",
	"api_key",
	"challenge",
	"www_authenticate",
}

var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	schemePattern = regexp.MustCompile(`(?i)^(bearer|basic|digest)\s+.+$`)
)

// redactOptions returns the masq rules applied by every handler New builds.
func redactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(redactedFields)+3)
	for _, name := range redactedFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(schemePattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts secrets.
// extra rules are applied in addition to the defaults.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}
