package complaint

import "smartalert/backend/internal/models"

// Capabilities describes what one portal may see and do with complaints.
// The list and detail views are shared; only the descriptor differs.
type Capabilities struct {
	Role     models.Role `json:"role"`
	BasePath string      `json:"-"`

	// OwnOnly restricts lists and lookups to the session user's complaints.
	OwnOnly         bool `json:"own_only"`
	CanUpdateStatus bool `json:"can_update_status"`
	CanComment      bool `json:"can_comment"`
	ShowReporter    bool `json:"show_reporter"`
}

var CitizenCapabilities = Capabilities{
	Role:       models.RoleUser,
	BasePath:   "/portal/complaints",
	OwnOnly:    true,
	CanComment: true,
}

var AuthorityCapabilities = Capabilities{
	Role:            models.RoleAuthority,
	BasePath:        "/authority/complaints",
	CanUpdateStatus: true,
	CanComment:      true,
	ShowReporter:    true,
}

// CapabilitiesFor returns the descriptor of a session role.
func CapabilitiesFor(role models.Role) Capabilities {
	if role == models.RoleAuthority {
		return AuthorityCapabilities
	}
	return CitizenCapabilities
}

// DetailPath is where the list links one record to.
func (c Capabilities) DetailPath(id string) string {
	return c.BasePath + "/" + id
}
