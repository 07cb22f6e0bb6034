package mw

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "tote_session"
	sessionIDKey      = "session_id"
	contextSessionKey = "sessionID"
)

// Sessions installs the signed cookie that carries the visitor session id.
// The cookie holds only the id; the session itself lives in server memory.
func Sessions(secret string, ttl time.Duration) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionCookieName, store)
}

// SessionRequired aborts with 404 when the request carries no session id and
// otherwise makes the id available through SessionID.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := sessions.Default(c).Get(sessionIDKey).(string)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":       "session not found",
				"title":       "Session expired",
				"description": "Start a new build to continue.",
			})
			return
		}
		c.Set(contextSessionKey, id)
		c.Next()
	}
}

// SessionID returns the visitor session id set by SessionRequired.
func SessionID(c *gin.Context) string {
	return c.GetString(contextSessionKey)
}

// SetSessionID binds the visitor to a session and writes the cookie.
func SetSessionID(c *gin.Context, id string) error {
	s := sessions.Default(c)
	s.Set(sessionIDKey, id)
	return s.Save()
}

// ClearSession drops the visitor's session binding.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// OperatorKey guards operator-only routes with a shared key sent in the
// X-Operator-Key header. An empty key disables the check.
func OperatorKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Operator-Key")), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator key required"})
			return
		}
		c.Next()
	}
}
