package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS кросс-доменные запросы. "*" в списке разрешает любой источник без учётных данных.
func CORS(allowOrigins []string) gin.HandlerFunc {
	origins := make([]string, 0, len(allowOrigins))
	wildcard := false
	for _, o := range allowOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		origins = append(origins, o)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "X-Request-ID", "X-Requested-With"},
		ExposedHeaders:       []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials:     !wildcard,
		MaxAge:               86400,
		OptionsSuccessStatus: http.StatusNoContent,
	})

	return func(c *gin.Context) {
		// на preflight rs/cors сам пишет статус ответа
		handler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.Abort()
			return
		}
		c.Next()
	}
}
