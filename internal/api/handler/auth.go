package handler

import (
	"net/http"

	"smartalert/backend/internal/router"
	"smartalert/backend/internal/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginPage describes the sign-in form, or where a signed-in user belongs.
func (h *Handler) LoginPage(c *gin.Context) {
	sess := CurrentSession(c)
	if sess.Authenticated {
		Success(c, http.StatusOK, gin.H{"session": sess, "redirect_to": router.HomeFor(sess.Role)})
		return
	}
	Success(c, http.StatusOK, gin.H{"session": sess, "fields": []string{"email", "password"}})
}

// Login перевіряє пароль, видає JWT та зберігає сесію
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	token, sess, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.Sessions.TTL().Seconds()), "/", "", h.SecureCookies, true)
	Success(c, http.StatusOK, gin.H{
		"token":       token,
		"session":     sess,
		"redirect_to": router.HomeFor(sess.Role),
	})
}

// Logout clears the persisted session and sends the client to the login page.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.SecureCookies, true)
	Success(c, http.StatusOK, gin.H{"redirect_to": router.LoginPath})
}
