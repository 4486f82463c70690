package handler

import (
	"net/http"
	"strings"

	"smartalert/backend/internal/apperror"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/router"
	"smartalert/backend/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	tokenKey   = "session_token"
)

// LoadSession resolves the request's token (cookie or Bearer header) and
// stores the session in the gin context. Missing or invalid tokens yield a guest.
func (h *Handler) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		c.Set(tokenKey, token)
		c.Set(sessionKey, h.Sessions.Load(c.Request.Context(), token))
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentSession returns the session stored by LoadSession.
func CurrentSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(models.Session); ok {
			return sess
		}
	}
	return models.GuestSession()
}

// RequireRole runs the route guard. An empty role only requires sign-in.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := router.Guard(c.Request.URL.Path, role, CurrentSession(c))
		if decision.Outcome == router.Render {
			c.Next()
			return
		}
		redirect(c, decision.Path)
	}
}

// redirect answers browsers with 303 and API clients with a JSON body
// naming the target.
func redirect(c *gin.Context, path string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, path)
		c.Abort()
		return
	}

	appErr := apperror.Forbidden("This area belongs to another role", nil)
	if path == router.LoginPath {
		appErr = apperror.Unauthorized("Please sign in", nil)
	}
	c.AbortWithStatusJSON(appErr.Status, Response{
		Success:    false,
		Error:      &ErrorInfo{Code: appErr.Code, Message: appErr.Message},
		RedirectTo: path,
		Timestamp:  timestamp(),
	})
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
