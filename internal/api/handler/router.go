package handler

import (
	"smartalert/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route of the service on a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), h.LoadSession())

	r.GET("/health", h.Health)
	r.GET("/", h.Landing)
	r.GET("/report", h.ReportForm)
	r.POST("/report", h.SubmitReport)
	r.POST("/report/location", h.ReportLocation)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/ws", RequireRole(""), h.ServeWebSocket)

	citizen := r.Group("/portal", RequireRole(models.RoleUser))
	citizen.GET("/*view", h.CitizenPortal)
	citizen.PUT("/profile", h.UpdateProfile)
	citizen.PUT("/settings", h.UpdateSettings)
	citizen.POST("/complaints/:id/comments", h.AddComment)

	authority := r.Group("/authority", RequireRole(models.RoleAuthority))
	authority.GET("/*view", h.AuthorityPortal)
	authority.PUT("/settings", h.UpdateSettings)
	authority.PUT("/complaints/:id/status", h.UpdateStatus)
	authority.POST("/complaints/:id/comments", h.AddComment)

	return r
}
