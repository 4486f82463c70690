package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"smartalert/backend/internal/apperror"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type settingsModel struct {
	Notifications  models.NotificationPreferences `json:"notifications"`
	Language       string                         `json:"language"`
	TelegramChatID int64                          `json:"telegram_chat_id"`
	Languages      []string                       `json:"languages"`
}

func (h *Handler) loadUser(ctx context.Context, sess models.Session) (*models.User, error) {
	user, err := h.Storage.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("user", err)
	}
	if err != nil {
		return nil, apperror.LoadFailure("profile", err)
	}
	return user, nil
}

func (h *Handler) settingsModel(ctx context.Context, sess models.Session) (interface{}, error) {
	user, err := h.loadUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	return h.settingsOf(user), nil
}

func (h *Handler) settingsOf(user *models.User) settingsModel {
	return settingsModel{
		Notifications:  user.Notifications,
		Language:       user.Language,
		TelegramChatID: user.TelegramChatID,
		Languages:      h.Localizer.Languages(),
	}
}

type profileRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateProfile serves PUT /portal/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	user, err := h.loadUser(ctx, CurrentSession(c))
	if err != nil {
		Fail(c, err)
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Address = strings.TrimSpace(req.Address)
	if user.Name == "" {
		Fail(c, apperror.Validation("Invalid input data", map[string]string{"name": "name is required"}))
		return
	}
	if err := h.Storage.SaveUser(ctx, user); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, user)
}

type settingsRequest struct {
	Notifications  models.NotificationPreferences `json:"notifications"`
	Language       string                         `json:"language"`
	TelegramChatID *int64                         `json:"telegram_chat_id"`
}

// UpdateSettings serves PUT /portal/settings and PUT /authority/settings.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	user, err := h.loadUser(ctx, CurrentSession(c))
	if err != nil {
		Fail(c, err)
		return
	}

	if req.Language != "" {
		if !h.supportsLanguage(req.Language) {
			Fail(c, apperror.Validation("Invalid input data", map[string]string{
				"language": "language must be one of: " + strings.Join(h.Localizer.Languages(), ", "),
			}))
			return
		}
		user.Language = req.Language
	}
	user.Notifications = req.Notifications
	if req.TelegramChatID != nil {
		user.TelegramChatID = *req.TelegramChatID
	}

	if err := h.Storage.SaveUser(ctx, user); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, h.settingsOf(user))
}

func (h *Handler) supportsLanguage(lang string) bool {
	for _, l := range h.Localizer.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}
