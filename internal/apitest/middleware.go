package apitest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pgdesk/internal/auth"
)

const contextKeyUserID = "user_id"

// bearerAuth rejects requests without a valid "Authorization: Bearer" token,
// answering the way the real API does: 401 with a message body.
func bearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Access denied. No token provided.",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Next()
	}
}

// record counts every routed request by "METHOD /route/pattern".
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.calls[routeKey(c.Request.Method, c.FullPath())]++
		s.mu.Unlock()
		c.Next()
	}
}

// inject answers with a queued failure for the route, if one is pending.
func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := routeKey(c.Request.Method, c.FullPath())

		s.mu.Lock()
		queue := s.failures[key]
		var f *Failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f == nil {
			c.Next()
			return
		}
		if f.RawBody != nil {
			c.Data(f.Status, f.ContentType, f.RawBody)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(f.Status, gin.H{"message": f.Message})
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}
