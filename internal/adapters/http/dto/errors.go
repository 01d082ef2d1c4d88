// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/errtranslate/internal/domain"
	"github.com/jsamuelsen/errtranslate/internal/platform/logging"
	"github.com/jsamuelsen/errtranslate/internal/platform/metrics"
	"github.com/jsamuelsen/errtranslate/internal/platform/telemetry"
	"github.com/jsamuelsen/errtranslate/internal/translate"
)

// ContextKeyErrorKind is the gin context key holding the kind of the
// translated error, read by the request logger and request metrics.
const ContextKeyErrorKind = telemetry.ErrorKindKey

// ErrorResponse is the JSON body of every error response.
// Data is present only for kinds that carry data.
type ErrorResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// HandleError translates err with the builder adapter and writes the
// response. Translator misuse is a programming error and panics, leaving it
// to the recovery middleware.
func HandleError(c *gin.Context, err error) {
	o, terr := translate.Translate(err)
	if terr != nil {
		panicOnMisuse(terr)
	}

	resp, ok := o.Reply(NewResponse).(*Response)
	if !ok {
		panic("dto: reply builder returned an unexpected type")
	}

	observe(c, err, string(o.Kind), resp.StatusCode)
	resp.Write(c)
}

// AbortWithError translates err with the boxed adapter and aborts the chain.
func AbortWithError(c *gin.Context, err error) {
	boxed, terr := translate.ToHTTPError(err)
	if terr != nil {
		panicOnMisuse(terr)
	}

	observe(c, err, string(boxed.Kind), boxed.StatusCode())
	WriteHTTPError(c, boxed)
}

// ReplayError translates a serialized error and responds as that error,
// through the boxed adapter when boxed is set and the builder adapter
// otherwise. Unlike HandleError, translator misuse is returned to the
// caller, since the serialized value came from the client.
func ReplayError(c *gin.Context, serialized any, boxed bool) error {
	if boxed {
		e, err := translate.ToHTTPError(serialized)
		if err != nil {
			return err
		}

		observe(c, e, string(e.Kind), e.StatusCode())
		WriteHTTPError(c, e)

		return nil
	}

	o, err := translate.Translate(serialized)
	if err != nil {
		return err
	}

	resp, ok := o.Reply(NewResponse).(*Response)
	if !ok {
		panic("dto: reply builder returned an unexpected type")
	}

	observe(c, &domain.Error{Kind: o.Kind, Message: o.Message, Data: o.Data}, string(o.Kind), resp.StatusCode)
	resp.Write(c)

	return nil
}

// WriteHTTPError writes a boxed error as-is and aborts the chain.
func WriteHTTPError(c *gin.Context, e *translate.HTTPError) {
	writeHeaders(c, e.Output.Headers)
	c.AbortWithStatusJSON(e.Output.StatusCode, ErrorResponse{
		Message: e.Output.Payload.Message,
		Data:    e.Output.Payload.Data,
		TraceID: GetTraceID(c),
	})
}

// GetTraceID returns the trace ID for the request: an explicit "trace_id"
// context value, the active span, the request ID set by the request ID
// middleware, or the X-Request-ID header, in that order.
func GetTraceID(c *gin.Context) string {
	if v, exists := c.Get("trace_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	if id := c.GetString("request_id"); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

func panicOnMisuse(err error) {
	var argErr *translate.ArgumentError
	if errors.As(err, &argErr) {
		metrics.Default().ObserveInvalidArgument(argErr.Argument)
	}

	panic(fmt.Errorf("translating error response: %w", err))
}

// observe records the outcome on the span, the metrics, and the log.
func observe(c *gin.Context, err error, kind string, status int) {
	if kind == "" {
		kind = "boxed"
	}

	c.Set(ContextKeyErrorKind, kind)
	_ = c.Error(err)

	metrics.Default().ObserveOutcome(kind, status)

	ctx := c.Request.Context()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("error.kind", kind),
		attribute.Int("http.response.status_code", status),
	)

	logger := logging.FromContext(logging.WithErrorKind(ctx, kind))

	if status >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		logger.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
		)

		return
	}

	if domain.Is(err, domain.KindCredentials) {
		logger.DebugContext(ctx, "credentials rejected", slog.Int("status", status))
		return
	}

	logger.Log(ctx, logging.LevelTrace, "error translated",
		slog.String("error", err.Error()),
		slog.Int("status", status),
	)
}
