package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"smartalert/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventsChannel is the Redis pub/sub channel carrying models.ComplaintEvent.
const EventsChannel = "complaints:events"

var (
	// ErrNotFound is returned when a user or complaint does not exist.
	ErrNotFound = errors.New("storage: record not found")
	// ErrStaleStatus is returned when a complaint changed between reading
	// its status and writing the update.
	ErrStaleStatus = errors.New("storage: complaint status changed concurrently")
)

// StatusCheck vets a status change against the stored status. A non-nil
// error aborts the update and is returned unchanged.
type StatusCheck func(current models.Status) error

// ListParams narrows ListComplaints. Zero values mean "no constraint".
type ListParams struct {
	SubmittedByID string
	Limit         int
}

// Storage is the single data-access interface every view goes through.
type Storage interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, chatID int64) (*models.User, error)

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, params ListParams) ([]models.Complaint, error)
	CountComplaintsByStatus(ctx context.Context, submittedByID string) (map[models.Status]int64, error)
	UpdateComplaintStatus(ctx context.Context, id string, to models.Status, check StatusCheck, event *models.TimelineEvent, comment *models.Comment) (models.Status, error)
	AddComment(ctx context.Context, comment *models.Comment) error

	PublishEvent(ctx context.Context, event models.ComplaintEvent) error
}

// Service implements Storage with gorm for records, a KV for the
// read-through complaint cache and Redis pub/sub for change events.
type Service struct {
	DB       *gorm.DB
	Cache    KV
	Redis    *redis.Client // nil disables pub/sub; LocalEvents is used instead
	CacheTTL time.Duration

	// LocalEvents receives events when Redis is not configured.
	LocalEvents func(models.ComplaintEvent)
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, cache KV, rdb *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		DB:       db,
		Cache:    cache,
		Redis:    rdb,
		CacheTTL: cacheTTL,
	}
}

// SaveUser creates or fully updates a user.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Save(user).Error
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Service) GetUserByTelegramID(ctx context.Context, chatID int64) (*models.User, error) {
	return s.findUser(ctx, "telegram_chat_id = ?", chatID)
}

func (s *Service) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to load user (%s %v): %v", query, arg, err)
		return nil, err
	}
	return &user, nil
}

// PublishEvent публікує подію в Redis Pub/Sub
func (s *Service) PublishEvent(ctx context.Context, event models.ComplaintEvent) error {
	if s.Redis == nil {
		if s.LocalEvents != nil {
			s.LocalEvents(event)
		}
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, EventsChannel, string(payload)).Err()
}
