package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/dto"
)

// Errors translates the last error a handler attached with c.Error, unless
// the handler already wrote a response.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		dto.HandleError(c, c.Errors.Last().Err)
	}
}
