package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit ограничивает размер тела запроса.
// Превышение обработчик видит как *http.MaxBytesError при чтении тела.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
