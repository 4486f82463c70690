// Package complaint provides the core logic for handling citizen complaints:
// submission, role-scoped lists and details, the status state machine and
// comment threads.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartalert/backend/internal/config"
	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"
)

var (
	ErrNoStatusChange    = errors.New("complaint already has this status")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrForbidden         = errors.New("not allowed for this role")
	ErrEmptyComment      = errors.New("comment text is empty")
	ErrUnknownStatus     = errors.New("unknown status")
)

// Notifier pushes a status change to the complaint's reporter.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, user *models.User, c *models.Complaint) error
}

// Service handles the business logic for complaints.
type Service struct {
	Storage   storage.Storage
	Banners   storage.KV
	Localizer *localization.Localizer
	Notifier  Notifier // optional

	// Strict enforces the Pending -> In Progress -> Resolved/Rejected graph.
	// When false any change to a different status is accepted.
	Strict   bool
	Language string

	Now func() time.Time
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, banners storage.KV, loc *localization.Localizer, strict bool) *Service {
	return &Service{
		Storage:   s,
		Banners:   banners,
		Localizer: loc,
		Strict:    strict,
		Language:  "en",
		Now:       time.Now,
	}
}

// Submit stores a new complaint built from draft. Signed-in citizens are
// recorded as the reporter; everyone else reports anonymously.
func (s *Service) Submit(ctx context.Context, sess models.Session, draft Draft) (*models.Complaint, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var by models.Reporter
	if sess.Authenticated && sess.Role == models.RoleUser {
		user, err := s.Storage.GetUserByID(ctx, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("load reporter: %w", err)
		}
		by = user.Reporter()
	}

	c := draft.Build(by, s.Now())
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventComplaintCreated, c)
	return c, nil
}

// List returns the complaints visible to sess, newest first.
func (s *Service) List(ctx context.Context, sess models.Session) ([]models.Complaint, error) {
	caps := CapabilitiesFor(sess.Role)
	params := storage.ListParams{}
	if caps.OwnOnly {
		params.SubmittedByID = sess.UserID
	}
	return s.Storage.ListComplaints(ctx, params)
}

// Get returns one complaint if sess may see it.
func (s *Service) Get(ctx context.Context, sess models.Session, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if CapabilitiesFor(sess.Role).OwnOnly && c.SubmittedBy.UserID != sess.UserID {
		return nil, ErrForbidden
	}
	return c, nil
}

// Detail builds the detail view of one complaint, including any banner
// flashed for this session.
func (s *Service) Detail(ctx context.Context, sess models.Session, id string) (*DetailView, error) {
	c, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	v := NewDetailView(CapabilitiesFor(sess.Role), c, s.Strict)
	v.Banner = s.Banner(ctx, sess, id)
	return v, nil
}

// UpdateStatus moves a complaint to next. Only authorities may call it.
// Exactly one timeline event and one system comment are appended.
func (s *Service) UpdateStatus(ctx context.Context, sess models.Session, id string, next models.Status) (*models.Complaint, error) {
	if !CapabilitiesFor(sess.Role).CanUpdateStatus || !sess.IsAuthority() {
		return nil, ErrForbidden
	}
	next, ok := models.ParseStatus(string(next))
	if !ok {
		return nil, ErrUnknownStatus
	}

	// Checked against the stored status inside the update transaction,
	// never against a cached copy.
	check := func(current models.Status) error {
		if current == next {
			return ErrNoStatusChange
		}
		if s.Strict && !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}
		return nil
	}

	now := s.Now()
	event := &models.TimelineEvent{
		Status:    next,
		By:        sess.DisplayName,
		ByRole:    models.AuthorAuthority,
		CreatedAt: now,
	}
	comment := &models.Comment{
		Author:     "System",
		AuthorRole: models.AuthorSystem,
		Text:       s.Localizer.Format(s.Language, "comment.status_updated", next),
		IsSystem:   true,
		CreatedAt:  now,
	}
	if _, err := s.Storage.UpdateComplaintStatus(ctx, id, next, check, event, comment); err != nil {
		return nil, err
	}

	updated, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	s.flash(ctx, sess, id, s.Localizer.Format(s.Language, "banner.status_updated", next))
	s.publish(ctx, models.EventStatusChanged, updated)
	s.notifyReporter(ctx, updated)
	return updated, nil
}

// AddComment appends text to the thread as the session user.
func (s *Service) AddComment(ctx context.Context, sess models.Session, id, text string) (*models.Complaint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if !CapabilitiesFor(sess.Role).CanComment {
		return nil, ErrForbidden
	}
	if _, err := s.Get(ctx, sess, id); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ComplaintID: id,
		Author:      sess.DisplayName,
		AuthorRole:  models.AuthorRoleFor(sess.Role),
		Text:        text,
		CreatedAt:   s.Now(),
	}
	if err := s.Storage.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	updated, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	s.flash(ctx, sess, id, s.Localizer.GetString(s.Language, "banner.comment_added"))
	s.publish(ctx, models.EventCommentAdded, updated)
	return updated, nil
}

// Banner returns the success message flashed for this session and complaint,
// or "" once it has expired.
func (s *Service) Banner(ctx context.Context, sess models.Session, id string) string {
	if s.Banners == nil || sess.ID == "" {
		return ""
	}
	msg, err := s.Banners.Get(ctx, bannerKey(sess.ID, id))
	if err != nil {
		return ""
	}
	return msg
}

func (s *Service) flash(ctx context.Context, sess models.Session, id, msg string) {
	if s.Banners == nil || sess.ID == "" {
		return
	}
	if err := s.Banners.Set(ctx, bannerKey(sess.ID, id), msg, config.BannerDuration); err != nil {
		log.Printf("WARNING: Failed to flash banner for %s: %v", id, err)
	}
}

func bannerKey(sessionID, complaintID string) string {
	return "notice:" + sessionID + ":" + complaintID
}

func (s *Service) publish(ctx context.Context, eventType string, c *models.Complaint) {
	event := models.ComplaintEvent{
		Type:        eventType,
		ComplaintID: c.ID,
		OwnerID:     c.SubmittedBy.UserID,
		Status:      c.Status,
		At:          s.Now(),
	}
	if err := s.Storage.PublishEvent(ctx, event); err != nil {
		log.Printf("ERROR: Failed to publish %s for %s: %v", eventType, c.ID, err)
	}
}

func (s *Service) notifyReporter(ctx context.Context, c *models.Complaint) {
	if s.Notifier == nil || c.SubmittedBy.UserID == "" {
		return
	}
	user, err := s.Storage.GetUserByID(ctx, c.SubmittedBy.UserID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ERROR: Failed to load reporter of %s: %v", c.ID, err)
		}
		return
	}
	if !user.Notifications.Push || user.TelegramChatID == 0 {
		return
	}
	if err := s.Notifier.NotifyStatusChange(ctx, user, c); err != nil {
		log.Printf("WARNING: Failed to notify %s about %s: %v", user.ID, c.ID, err)
	}
}
