package models

import "time"

// Event types carried by ComplaintEvent.
const (
	EventComplaintCreated = "complaint.created"
	EventStatusChanged    = "complaint.status_changed"
	EventCommentAdded     = "complaint.comment_added"
)

// ComplaintEvent повідомляє відкриті портали про зміну скарги.
type ComplaintEvent struct {
	Type        string    `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	OwnerID     string    `json:"owner_id,omitempty"` // reporter's user id, empty for anonymous reports
	Status      Status    `json:"status,omitempty"`
	At          time.Time `json:"at"`
}
