package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key, so messages name the
// setting an operator has to fix.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// ruleMessages maps a validator tag to a message template. The template
// receives the setting key and the rule parameter.
var ruleMessages = map[string]string{
	"required":      "%s is required",
	"required_if":   "%s is required when %s",
	"min":           "%s must be at least %s",
	"max":           "%s must be at most %s",
	"oneof":         "%s must be one of: %s",
	"hostname_port": "%s must be host:port",
}

// Validate checks the loaded settings. The service refuses to start when
// it fails.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		lines = append(lines, ruleMessage(fe))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func ruleMessage(fe validator.FieldError) string {
	key := settingKey(fe.Namespace())

	tmpl, ok := ruleMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}

	if strings.Count(tmpl, "%s") == 1 {
		return fmt.Sprintf(tmpl, key)
	}

	return fmt.Sprintf(tmpl, key, fe.Param())
}

// settingKey drops the root struct from a namespace such as
// "Config.auth.replay_scopes[0]".
func settingKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}
