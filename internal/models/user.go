package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationPreferences are the delivery channels a user opted into.
type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// User представляє громадянина або представника органу влади.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Department   string `json:"department,omitempty"` // only for authorities
	Role         Role   `gorm:"not null" json:"role"`
	PasswordHash string `json:"-"`

	Notifications  NotificationPreferences `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
	Language       string                  `json:"language"`
	TelegramChatID int64                   `gorm:"index" json:"telegram_chat_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate є хуком GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Language == "" {
		u.Language = "en"
	}
	return
}

// Reporter returns the contact block stamped on complaints this user files.
func (u User) Reporter() Reporter {
	return Reporter{UserID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
