package eventhub

import "smartalert/backend/internal/models"

// Client is one open portal connection subscribed to complaint events.
type Client interface {
	// GetClientID is unique per connection; one user may hold several.
	GetClientID() string
	// GetSession identifies who is connected and decides which events they receive.
	GetSession() models.Session

	// GetSendChannel returns the channel the hub delivers events on.
	GetSendChannel() chan<- models.ComplaintEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close stops the write pump. The hub calls it exactly once.
	Close()
}

// Deliverable reports whether c may see e: authorities see every complaint,
// citizens only their own.
func Deliverable(sess models.Session, e models.ComplaintEvent) bool {
	switch {
	case sess.IsAuthority():
		return true
	case sess.Authenticated && sess.Role == models.RoleUser:
		return e.OwnerID != "" && e.OwnerID == sess.UserID
	default:
		return false
	}
}
