package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// внешний идентификатор принимается только в таком виде, иначе создаётся новый
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID берёт X-Request-ID из запроса или создаёт UUID.
// Идентификатор попадает в контекст gin, журнал и заголовок ответа.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !requestIDPattern.MatchString(rid) {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID идентификатор текущего запроса
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
