package handler

import (
	"context"
	"net/http"

	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/config"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/router"

	"github.com/gin-gonic/gin"
)

// Health is used by load balancers.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Landing is the public home page.
func (h *Handler) Landing(c *gin.Context) {
	sess := CurrentSession(c)
	links := gin.H{"report": "/report", "login": router.LoginPath}
	if sess.Authenticated {
		links["portal"] = router.HomeFor(sess.Role)
	}
	Success(c, http.StatusOK, gin.H{
		"app":        "SmartAlert",
		"session":    sess,
		"links":      links,
		"categories": config.Categories,
	})
}

// ReportForm describes the submission form.
func (h *Handler) ReportForm(c *gin.Context) {
	sess := CurrentSession(c)
	Success(c, http.StatusOK, gin.H{
		"draft":      complaint.Draft{},
		"categories": config.Categories,
		"priorities": []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh},
		"return_to":  returnPath(sess),
	})
}

// SubmitReport validates and stores a complaint.
func (h *Handler) SubmitReport(c *gin.Context) {
	var draft complaint.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		Fail(c, bindError(err))
		return
	}

	sess := CurrentSession(c)
	form := complaint.NewForm(draft)
	created, err := form.Submit(c.Request.Context(), func(ctx context.Context, d complaint.Draft) (*models.Complaint, error) {
		return h.Complaints.Submit(ctx, sess, d)
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, http.StatusCreated, gin.H{
		"complaint": created,
		"message":   h.text("report.submitted"),
		"draft":     form.Draft(),
		"return_to": returnPath(sess),
	})
}

type locationRequest struct {
	Lat      *float64 `json:"lat" binding:"required"`
	Lng      *float64 `json:"lng" binding:"required"`
	Location string   `json:"location"`
}

// ReportLocation fills the location field from coordinates the client measured.
// On failure the submitted location is returned unchanged.
func (h *Handler) ReportLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	form := complaint.NewForm(complaint.Draft{Location: req.Location})
	geo := complaint.StaticGeolocator{Lat: *req.Lat, Lng: *req.Lng}
	if err := form.UseLocation(c.Request.Context(), geo); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"location": form.Draft().Location})
}

// returnPath is where the client goes after a successful submission.
func returnPath(sess models.Session) string {
	if sess.Authenticated && sess.Role == models.RoleUser {
		return complaint.CitizenCapabilities.BasePath
	}
	return "/"
}
