package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insight-web/pkg/session"
)

const (
	visitorCookie = "insight_visitor"
	visitorMaxAge = 30 * 24 * 60 * 60

	// VisitorKey holds the visitor id in the gin context
	VisitorKey = "visitor_id"
	// TokenKey holds the admin API token in the gin context
	TokenKey = "admin_token"
)

// CORS allows the listed origins to call the JSON endpoints with cookies
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger writes one structured line per request
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Visitor tags every browser with a random id so it keeps its own lead form
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", secure, true)
		}
		c.Set(VisitorKey, id)
		c.Next()
	}
}

// RequireAdmin sends anyone without an admin session to the login page
func RequireAdmin(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Load(c.Request)
		if !sess.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}
		c.Set(TokenKey, sess.Token)
		c.Next()
	}
}
