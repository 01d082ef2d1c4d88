//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	httpadapter "github.com/jsamuelsen/errtranslate/internal/adapters/http"
	"github.com/jsamuelsen/errtranslate/internal/adapters/http/handlers"
	"github.com/jsamuelsen/errtranslate/internal/platform/config"
	"github.com/jsamuelsen/errtranslate/internal/ports"
	"github.com/jsamuelsen/errtranslate/internal/translate"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	client       *http.Client
	headers      map[string]string
	response     *http.Response
	responseBody []byte
}

func newTestContext(baseURL string) *testContext {
	return &testContext{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		headers: map[string]string{},
	}
}

func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		_ = tc.response.Body.Close()
	}

	tc.headers = map[string]string{}
	tc.response = nil
	tc.responseBody = nil
}

// suiteConfig is the configuration of the in-process service.
func suiteConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "errtranslate", Environment: "test", Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout:  2 * time.Second,
			ShutdownTimeout: time.Second,
			MaxRequestSize:  config.DefaultMaxRequestSize,
		},
		Auth: config.AuthConfig{
			Enabled:    true,
			Challenge:  `Bearer realm="errtranslate"`,
			ReplayRole: "errors-admin",
		},
	}
}

// newInProcessServer starts the full router on a loopback listener.
func newInProcessServer() (*httptest.Server, error) {
	gin.SetMode(gin.TestMode)

	cfg := suiteConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := ports.NewHealthRegistry()
	if err := registry.Register(translate.NewChecker()); err != nil {
		return nil, fmt.Errorf("registering checker: %w", err)
	}

	srv := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(srv.Engine(), httpadapter.NewRouterConfig(
		logger,
		cfg,
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "test", "test")),
		handlers.NewTranslateHandler(),
	))

	return httptest.NewServer(srv.Engine()), nil
}

func initializeScenario(baseURL string) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := newTestContext(baseURL)

		ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
		ctx.Step(`^I am authenticated as "([^"]*)" with roles "([^"]*)"$`, tc.iAmAuthenticatedAs)
		ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
		ctx.Step(`^I POST to "([^"]*)" with:$`, tc.iPOSTWith)
		ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
		ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
		ctx.Step(`^the response header "([^"]*)" should be "(.*)"$`, tc.theResponseHeaderShouldBe)
		ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
		ctx.Step(`^the response should not have field "([^"]*)"$`, tc.theResponseShouldNotHaveField)
	}
}

func (tc *testContext) theServiceIsRunning() error {
	if err := tc.do(http.MethodGet, "/-/live", nil); err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.baseURL, err)
	}

	return tc.theResponseStatusShouldBe(http.StatusOK)
}

func (tc *testContext) iAmAuthenticatedAs(subject, roles string) error {
	tc.headers["X-User-ID"] = subject
	tc.headers["X-User-Roles"] = roles

	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *testContext) iPOSTWith(path string, body *godog.DocString) error {
	return tc.do(http.MethodPost, path, strings.NewReader(body.Content))
}

func (tc *testContext) do(method, path string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for k, v := range tc.headers {
		req.Header.Set(k, v)
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expected int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if tc.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, tc.response.StatusCode, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !bytes.Contains(tc.responseBody, []byte(text)) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseHeaderShouldBe(name, expected string) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if got := tc.response.Header.Get(name); got != expected {
		return fmt.Errorf("expected header %s to be %q, got %q", name, expected, got)
	}

	return nil
}

func (tc *testContext) body() (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.responseBody, &body); err != nil {
		return nil, fmt.Errorf("decoding body %s: %w", tc.responseBody, err)
	}

	return body, nil
}

func (tc *testContext) theResponseFieldShouldBe(field, expected string) error {
	body, err := tc.body()
	if err != nil {
		return err
	}

	if got := fmt.Sprint(body[field]); got != expected {
		return fmt.Errorf("expected field %s to be %q, got %q", field, expected, got)
	}

	return nil
}

func (tc *testContext) theResponseShouldNotHaveField(field string) error {
	body, err := tc.body()
	if err != nil {
		return err
	}

	if _, ok := body[field]; ok {
		return fmt.Errorf("unexpected field %s in %s", field, tc.responseBody)
	}

	return nil
}

// TestFeatures runs the godog suite against BASE_URL, or against an
// in-process server when BASE_URL is unset.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		srv, err := newInProcessServer()
		if err != nil {
			t.Fatalf("starting in-process server: %v", err)
		}

		t.Cleanup(srv.Close)

		baseURL = srv.URL
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(baseURL),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
