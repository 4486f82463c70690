package handler

import (
	"context"
	"errors"
	"net/http"

	"smartalert/backend/internal/apperror"
	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/config"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/router"
	"smartalert/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Page is the body of every portal view: the shell plus one sub-view.
type Page struct {
	Shell router.ShellModel `json:"shell"`
	View  router.View       `json:"view"`
	Data  interface{}       `json:"data"`
}

type portal struct {
	table    router.Table
	newShell func(path string) *router.Shell
}

var (
	citizenPortal   = portal{table: router.CitizenRoutes, newShell: router.NewCitizenShell}
	authorityPortal = portal{table: router.AuthorityRoutes, newShell: router.NewAuthorityShell}
)

// CitizenPortal serves GET /portal/*view.
func (h *Handler) CitizenPortal(c *gin.Context) {
	h.servePortal(c, citizenPortal)
}

// AuthorityPortal serves GET /authority/*view.
func (h *Handler) AuthorityPortal(c *gin.Context) {
	h.servePortal(c, authorityPortal)
}

func (h *Handler) servePortal(c *gin.Context, p portal) {
	ctx := c.Request.Context()
	sess := CurrentSession(c)
	path := c.Request.URL.Path

	shell := p.newShell(p.table.Path(string(router.ViewDashboard)))
	shell.Navigate(path)

	match := p.table.Match(path)
	var (
		data interface{}
		err  error
	)
	switch match.View {
	case router.ViewComplaints:
		data, err = h.listModel(c, sess)
	case router.ViewDetail:
		data, err = h.detailModel(ctx, sess, match.Params["id"])
	case router.ViewProfile:
		data, err = h.loadUser(ctx, sess)
	case router.ViewSettings:
		data, err = h.settingsModel(ctx, sess)
	case router.ViewMap:
		data, err = h.mapModel(ctx, sess)
	default:
		data, err = h.Complaints.Dashboard(ctx, sess)
		if err != nil {
			err = apperror.LoadFailure("dashboard", err)
		}
	}
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, http.StatusOK, Page{
		Shell: shell.Model(sess.DisplayName),
		View:  match.View,
		Data:  data,
	})
}

var listQueryParams = []struct {
	key   complaint.FilterKey
	param string
}{
	{complaint.FilterStatus, "status"},
	{complaint.FilterCategory, "category"},
	{complaint.FilterDate, "date"},
	{complaint.FilterQuery, "q"},
}

func (h *Handler) listModel(c *gin.Context, sess models.Session) (interface{}, error) {
	view := complaint.NewListView(complaint.CapabilitiesFor(sess.Role))
	for _, qp := range listQueryParams {
		if err := view.Filter.Set(qp.key, c.Query(qp.param)); err != nil {
			return nil, err
		}
	}
	if c.Query("reset") == "1" {
		view.ResetFilters()
	}

	err := view.Mount(c.Request.Context(), func(ctx context.Context) ([]models.Complaint, error) {
		return h.Complaints.List(ctx, sess)
	})
	if err != nil {
		return nil, apperror.LoadFailure("complaints", err)
	}
	emptyKey := "list.empty"
	if !view.Filter.IsEmpty() {
		emptyKey = "list.no_matches"
	}
	return view.Model(h.text(emptyKey)), nil
}

func (h *Handler) detailModel(ctx context.Context, sess models.Session, id string) (interface{}, error) {
	view, err := h.Complaints.Detail(ctx, sess, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, apperror.NotFound("complaint", err)
	case errors.Is(err, complaint.ErrForbidden):
		return nil, err
	case err != nil:
		return nil, apperror.LoadFailure("complaint", err)
	}
	return view.Model(), nil
}

func (h *Handler) mapModel(ctx context.Context, sess models.Session) (interface{}, error) {
	markers, err := h.Complaints.Markers(ctx, sess)
	if err != nil {
		return nil, apperror.LoadFailure("incident map", err)
	}
	return gin.H{"markers": markers, "styles": config.MarkerStyles}, nil
}

// UpdateStatus serves PUT /authority/complaints/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	next, ok := models.ParseStatus(req.Status)
	if !ok {
		Fail(c, complaint.ErrUnknownStatus)
		return
	}

	sess := CurrentSession(c)
	id := c.Param("id")
	if _, err := h.Complaints.UpdateStatus(c.Request.Context(), sess, id, next); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperror.NotFound("complaint", err)
		}
		Fail(c, err)
		return
	}
	h.respondDetail(c, sess, id, http.StatusOK)
}

// AddComment serves POST .../complaints/:id/comments for both portals.
func (h *Handler) AddComment(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	sess := CurrentSession(c)
	id := c.Param("id")
	if _, err := h.Complaints.AddComment(c.Request.Context(), sess, id, req.Text); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperror.NotFound("complaint", err)
		}
		Fail(c, err)
		return
	}
	h.respondDetail(c, sess, id, http.StatusCreated)
}

func (h *Handler) respondDetail(c *gin.Context, sess models.Session, id string, status int) {
	model, err := h.detailModel(c.Request.Context(), sess, id)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, status, model)
}
