package middleware

import (
	"context"
	"errors"
	"time"

	"academy-service/apperrors"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout bounds every request context.
const DefaultRequestTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. Handlers that honour
// the context and return without writing get a 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			apperrors.Respond(c, apperrors.ErrTimeout)
		}
	}
}
