package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/dto"
	"github.com/jsamuelsen/errtranslate/internal/domain"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/panic", func(_ *gin.Context) {
		panic("secret internals")
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret internals")

	body := decodeError(t, w)
	assert.Equal(t, domain.DefaultMessage(domain.KindUnknown), body.Message)
	assert.Nil(t, body.Data)

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "secret internals")
}

func TestRecoveryWithHandler(t *testing.T) {
	t.Parallel()

	var (
		recovered any
		stack     []byte
	)

	router := gin.New()
	router.Use(RecoveryWithHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), func(r any, s []byte) {
		recovered = r
		stack = s
	}))
	router.GET("/panic", func(_ *gin.Context) {
		panic("boom")
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", recovered)
	assert.NotEmpty(t, stack)
}

func TestRecovery_AfterWrite(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestRecovery_TranslatorMisuse(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.GET("/misuse", func(c *gin.Context) {
		// A CredentialsError without a challenge is a programming error.
		dto.HandleError(c, &domain.Error{Kind: domain.KindCredentials})
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/misuse", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
}
