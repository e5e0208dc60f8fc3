package middleware

import "github.com/gin-gonic/gin"

// NoCache marks responses as never cacheable. Dashboard pages depend on the
// session and on live tenant data.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
