package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

// ErrorHandler renders errors attached to the gin context with the shared
// error taxonomy mapping. Handlers that already wrote a response are left
// alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request error")
		}

		if !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	}
}
