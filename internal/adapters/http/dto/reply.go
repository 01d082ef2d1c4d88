package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/translate"
)

// Response is a gin-backed reply builder. The translator configures it
// through the translate.Reply methods and Write sends it.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Payload    translate.Payload
}

// NewResponse starts a 200 response with the given payload.
// It has the translate.ReplyFunc signature.
func NewResponse(payload translate.Payload) translate.Reply {
	return &Response{
		StatusCode: 200,
		Headers:    map[string]string{},
		Payload:    payload,
	}
}

// Type sets the content type.
func (r *Response) Type(mimeType string) translate.Reply {
	r.Headers[translate.HeaderContentType] = mimeType
	return r
}

// Code sets the status code.
func (r *Response) Code(statusCode int) translate.Reply {
	r.StatusCode = statusCode
	return r
}

// Header sets a response header.
func (r *Response) Header(name, value string) translate.Reply {
	r.Headers[name] = value
	return r
}

// Body returns the JSON body with the given trace ID.
func (r *Response) Body(traceID string) ErrorResponse {
	return ErrorResponse{
		Message: r.Payload.Message,
		Data:    r.Payload.Data,
		TraceID: traceID,
	}
}

// Write sends the response and aborts the handler chain.
func (r *Response) Write(c *gin.Context) {
	writeHeaders(c, r.Headers)
	c.AbortWithStatusJSON(r.StatusCode, r.Body(GetTraceID(c)))
}

// writeHeaders copies headers onto the response. gin keeps an explicit
// Content-Type instead of adding its charset default.
func writeHeaders(c *gin.Context, headers map[string]string) {
	for name, value := range headers {
		c.Header(name, value)
	}
}
