package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/errtranslate/internal/domain"
)

// logLines decodes JSON log records.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))

		out = append(out, rec)
	}

	return out
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		skip      []string
		handler   gin.HandlerFunc
		wantLines int
		wantLevel string
		wantKind  string
	}{
		{
			name:      "success",
			path:      "/ok",
			handler:   func(c *gin.Context) { c.Status(http.StatusOK) },
			wantLines: 2,
			wantLevel: "INFO",
		},
		{
			name: "client error carries kind",
			path: "/missing",
			handler: func(c *gin.Context) {
				_ = c.Error(domain.NewNotFoundError(""))
			},
			wantLines: 2,
			wantLevel: "WARN",
			wantKind:  string(domain.KindNotFound),
		},
		{
			name: "server error",
			path: "/down",
			handler: func(c *gin.Context) {
				_ = c.Error(domain.NewTempUnavailableError(""))
			},
			wantLines: 2,
			wantLevel: "ERROR",
			wantKind:  string(domain.KindTempUnavailable),
		},
		{
			name:      "health path skipped",
			path:      "/-/live",
			handler:   func(c *gin.Context) { c.Status(http.StatusOK) },
			wantLines: 0,
		},
		{
			name:      "configured path skipped",
			path:      "/metrics",
			skip:      []string{"/metrics"},
			handler:   func(c *gin.Context) { c.Status(http.StatusOK) },
			wantLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(LoggingWithSkipPaths(logger, tt.skip))
			router.Use(Errors())
			router.GET(tt.path, tt.handler)

			serve(router, httptest.NewRequest(http.MethodGet, tt.path+"?q=1", nil))

			lines := logLines(t, &buf)
			require.Len(t, lines, tt.wantLines)

			if tt.wantLines == 0 {
				return
			}

			assert.Equal(t, "request started", lines[0]["msg"])

			done := lines[1]
			assert.Equal(t, "request completed", done["msg"])
			assert.Equal(t, tt.wantLevel, done["level"])
			assert.Equal(t, tt.path+"?q=1", done["path"])

			if tt.wantKind == "" {
				assert.NotContains(t, done, "error_kind")
			} else {
				assert.Equal(t, tt.wantKind, done["error_kind"])
			}
		})
	}
}

func TestLogging_DefaultSkipsHealth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	router := gin.New()
	router.Use(Logging(slog.New(slog.NewJSONHandler(&buf, nil))))
	router.GET("/-/ready", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
	assert.Empty(t, buf.String())

	serve(router, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Len(t, logLines(t, &buf), 2)
}
