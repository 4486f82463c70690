package models

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusRejected   Status = "Rejected"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
}

// ParseStatus accepts display values ("In Progress") as well as the
// camelCase and snake_case keys used by filter dropdowns.
func ParseStatus(raw string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "pending":
		return StatusPending, true
	case "inprogress":
		return StatusInProgress, true
	case "resolved":
		return StatusResolved, true
	case "rejected":
		return StatusRejected, true
	}
	return "", false
}

// NextStatuses returns the statuses reachable from s. Terminal statuses return nil.
func (s Status) NextStatuses() []Status {
	return statusTransitions[s]
}

// CanTransitionTo reports whether next is a valid successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Priority of a complaint.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority is case-insensitive.
func ParsePriority(raw string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

// AuthorRole tells the client how to badge a timeline entry or comment.
type AuthorRole string

const (
	AuthorSystem    AuthorRole = "system"
	AuthorAuthority AuthorRole = "authority"
	AuthorCitizen   AuthorRole = "citizen"
)

// AuthorRoleFor maps a session role onto the badge used for its comments.
func AuthorRoleFor(role Role) AuthorRole {
	if role == RoleAuthority {
		return AuthorAuthority
	}
	return AuthorCitizen
}

// Reporter identifies the citizen who filed a complaint. UserID is empty for
// anonymous reports submitted from the public form.
type Reporter struct {
	UserID string `gorm:"index" json:"user_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// Complaint is a citizen-submitted incident report.
type Complaint struct {
	ID          string   `gorm:"primaryKey;size:32" json:"id"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    string   `gorm:"index;not null" json:"category"`
	Priority    Priority `gorm:"not null" json:"priority"`
	Status      Status   `gorm:"index;not null" json:"status"`
	Location    string   `gorm:"not null" json:"location"`
	// Latitude and Longitude are set when Location carries coordinates.
	Latitude    *float64 `json:"lat,omitempty"`
	Longitude   *float64 `json:"lng,omitempty"`
	SubmittedBy Reporter `gorm:"embedded;embeddedPrefix:reporter_" json:"submitted_by"`
	Images      []string `gorm:"serializer:json;type:text" json:"images"`

	Timeline []TimelineEvent `gorm:"foreignKey:ComplaintID" json:"timeline,omitempty"`
	Comments []Comment       `gorm:"foreignKey:ComplaintID" json:"comments,omitempty"`

	// Version is bumped by every write to the complaint or its thread.
	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComplaintID returns a fresh, lexically time-ordered complaint id.
func NewComplaintID() string {
	return "C-" + ulid.Make().String()
}

// BeforeCreate assigns an id and the initial status.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = NewComplaintID()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return
}

// Date is the creation day, as shown in list views.
func (c Complaint) Date() string {
	return c.CreatedAt.Format("2006-01-02")
}

// TimelineEvent records one status change. Events are append-only and are
// displayed in insertion order.
type TimelineEvent struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID string     `gorm:"size:32;index;not null" json:"complaint_id"`
	Status      Status     `gorm:"not null" json:"status"`
	By          string     `json:"by"`
	ByRole      AuthorRole `json:"by_role"`
	CreatedAt   time.Time  `json:"at"`
}

// Comment is one entry of a complaint's discussion thread.
type Comment struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID string     `gorm:"size:32;index;not null" json:"complaint_id"`
	Author      string     `json:"author"`
	AuthorRole  AuthorRole `json:"author_role"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	IsSystem    bool       `json:"is_system"`
	CreatedAt   time.Time  `json:"at"`
}
