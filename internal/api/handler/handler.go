package handler

import (
	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/eventhub"
	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/session"
	"smartalert/backend/internal/storage"
)

// Handler містить усі сервіси, потрібні HTTP-обробникам
type Handler struct {
	Sessions   *session.Manager
	Complaints *complaint.Service
	Storage    storage.Storage
	Hub        *eventhub.ManagerService
	Localizer  *localization.Localizer

	// Language of messages rendered into responses.
	Language string
	// SecureCookies marks the session cookie Secure (HTTPS deployments).
	SecureCookies bool
}

func NewHandler(sessions *session.Manager, complaints *complaint.Service, s storage.Storage, hub *eventhub.ManagerService, loc *localization.Localizer) *Handler {
	return &Handler{
		Sessions:   sessions,
		Complaints: complaints,
		Storage:    s,
		Hub:        hub,
		Localizer:  loc,
		Language:   "en",
	}
}

func (h *Handler) text(key string) string {
	return h.Localizer.GetString(h.Language, key)
}
