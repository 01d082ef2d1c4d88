package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen/errtranslate/internal/domain"
)

// Checker verifies the rule table end to end by translating a probe of
// every kind. It satisfies ports.HealthChecker.
type Checker struct{}

// NewChecker creates a translator health checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Name returns the health check identifier.
func (c *Checker) Name() string {
	return "translator"
}

// Check returns an error if any kind translates to something other than its rule.
func (c *Checker) Check(ctx context.Context) error {
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}

		probe := &domain.Error{Kind: rule.Kind}
		if rule.RequiresChallenge {
			probe.Data = "probe"
		}

		if err := expect(probe, rule); err != nil {
			return err
		}
	}

	return expect(errors.New(""), unknownRule)
}

func expect(probe error, rule Rule) error {
	o, err := Translate(probe)
	if err != nil {
		return fmt.Errorf("translating %s probe: %w", rule.Kind, err)
	}

	if o.Kind != rule.Kind || o.StatusCode != rule.StatusCode || o.Message != rule.DefaultMessage {
		return fmt.Errorf("%s probe translated to %s/%d", rule.Kind, o.Kind, o.StatusCode)
	}

	if o.Headers[HeaderContentType] != ContentTypeJSON {
		return fmt.Errorf("%s probe missing JSON content type", rule.Kind)
	}

	return nil
}
