package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/dto"
	"github.com/jsamuelsen/errtranslate/internal/domain"
	"github.com/jsamuelsen/errtranslate/internal/platform/logging"
)

// PanicHandler receives the recovered value and its stack.
type PanicHandler func(recovered any, stack []byte)

// Recovery returns middleware that turns a panic into the Unknown outcome.
// The panic value is logged with its stack and never sent to the client.
// Register it first so it covers every later handler.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithHandler(logger, nil)
}

// RecoveryWithHandler is Recovery with an extra callback, e.g. for crash
// reporting.
func RecoveryWithHandler(logger *slog.Logger, onPanic PanicHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			if onPanic != nil {
				onPanic(r, stack)
			}

			logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(stack)),
				slog.String("path", c.FullPath()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			dto.HandleError(c, &domain.Error{Kind: domain.KindUnknown})
		}()

		c.Next()
	}
}
