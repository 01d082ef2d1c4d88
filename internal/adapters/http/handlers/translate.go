package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/dto"
	"github.com/jsamuelsen/errtranslate/internal/domain"
	"github.com/jsamuelsen/errtranslate/internal/platform/metrics"
	"github.com/jsamuelsen/errtranslate/internal/translate"
)

// Reply styles accepted by the replay endpoint.
const (
	StyleBuilder = "builder"
	StyleBoxed   = "boxed"
)

// TranslateHandler exposes the translator over HTTP.
type TranslateHandler struct{}

// NewTranslateHandler creates a new translate handler.
func NewTranslateHandler() *TranslateHandler {
	return &TranslateHandler{}
}

// ErrorRequest is a serialized error. Kind is the discriminator and Name the
// fallback tag.
type ErrorRequest struct {
	Kind    string `json:"kind" validate:"omitempty,notempty,max=64"`
	Name    string `json:"name" validate:"omitempty,notempty,max=64"`
	Message string `json:"message" validate:"max=1024"`
	Data    any    `json:"data"`
}

// toMap returns the request in the shape of a decoded JSON error.
func (r *ErrorRequest) toMap() map[string]any {
	m := map[string]any{}

	if r.Kind != "" {
		m["kind"] = r.Kind
	}

	if r.Name != "" {
		m["name"] = r.Name
	}

	if r.Message != "" {
		m["message"] = r.Message
	}

	if r.Data != nil {
		m["data"] = r.Data
	}

	return m
}

// KindsResponse lists the rule table.
type KindsResponse struct {
	Kinds []translate.Rule `json:"kinds"`
}

// PreviewResponse describes the outcome a serialized error translates to.
type PreviewResponse struct {
	Kind       string            `json:"kind"`
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Payload    translate.Payload `json:"payload"`
}

type replayQuery struct {
	Style string `form:"style" json:"style" validate:"omitempty,oneof=builder boxed"`
}

// ListKinds handles GET /api/v1/kinds.
//
// @Summary List error kinds
// @Description Returns the rule table in classification priority order
// @Tags translate
// @Produce json
// @Success 200 {object} KindsResponse
// @Router /api/v1/kinds [get]
func (h *TranslateHandler) ListKinds(c *gin.Context) {
	c.JSON(http.StatusOK, KindsResponse{Kinds: translate.Rules()})
}

// Preview handles POST /api/v1/translate.
// The body is translated with the boxed adapter and described, not replayed.
//
// @Summary Preview a translation
// @Tags translate
// @Accept json
// @Produce json
// @Param error body ErrorRequest true "Serialized error"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/translate [post]
func (h *TranslateHandler) Preview(c *gin.Context) {
	var req ErrorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	boxed, err := translate.ToHTTPError(req.toMap())
	if err != nil {
		dto.HandleError(c, misuse(err))
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Kind:       string(boxed.Kind),
		StatusCode: boxed.Output.StatusCode,
		Headers:    boxed.Output.Headers,
		Payload:    boxed.Output.Payload,
	})
}

// Replay handles POST /api/v1/replay. It responds as the serialized error
// would, through the builder adapter (default) or the boxed adapter.
//
// @Summary Replay a serialized error
// @Tags translate
// @Accept json
// @Produce json
// @Param style query string false "builder or boxed"
// @Param error body ErrorRequest true "Serialized error"
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/replay [post]
func (h *TranslateHandler) Replay(c *gin.Context) {
	var q replayQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	var req ErrorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := dto.ReplayError(c, req.toMap(), q.Style == StyleBoxed); err != nil {
		dto.HandleError(c, misuse(err))
	}
}

// RegisterRoutes registers the translate routes. protect runs before replay.
func (h *TranslateHandler) RegisterRoutes(rg *gin.RouterGroup, protect ...gin.HandlerFunc) {
	rg.GET("/kinds", h.ListKinds)
	rg.POST("/translate", h.Preview)
	rg.POST("/replay", append(protect, h.Replay)...)
}

// misuse reports a rejected serialized error as a FormatError.
func misuse(err error) error {
	var argErr *translate.ArgumentError
	if errors.As(err, &argErr) {
		metrics.Default().ObserveInvalidArgument(argErr.Argument)
		return domain.NewFormatError(argErr.Error())
	}

	return domain.NewFormatError("")
}
