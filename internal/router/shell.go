package router

import (
	"strings"
	"sync"
)

// NavItem is one entry of a portal's navigation.
type NavItem struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// Shell is the chrome around a portal's sub-views: the navigation, the
// active-item set and the mobile menu.
type Shell struct {
	Title string
	items []NavItem

	mu       sync.Mutex
	path     string
	menuOpen bool
}

func NewCitizenShell(path string) *Shell {
	return newShell("Citizen Portal", path, []NavItem{
		{Label: "Dashboard", Path: "/portal/dashboard"},
		{Label: "My Complaints", Path: "/portal/complaints"},
		{Label: "Incident Map", Path: "/portal/map"},
		{Label: "Profile", Path: "/portal/profile"},
		{Label: "Settings", Path: "/portal/settings"},
	})
}

func NewAuthorityShell(path string) *Shell {
	return newShell("Authority Portal", path, []NavItem{
		{Label: "Dashboard", Path: "/authority/dashboard"},
		{Label: "Complaints", Path: "/authority/complaints"},
		{Label: "Settings", Path: "/authority/settings"},
	})
}

func newShell(title, path string, items []NavItem) *Shell {
	return &Shell{Title: title, items: items, path: path}
}

// IsActive: a nav item is active on its own path and on every path below it.
func IsActive(current, itemPath string) bool {
	return current == itemPath || strings.HasPrefix(current, itemPath+"/")
}

// Navigate changes the current path and always closes the mobile menu.
func (s *Shell) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.menuOpen = false
}

func (s *Shell) OpenMenu() {
	s.mu.Lock()
	s.menuOpen = true
	s.mu.Unlock()
}

func (s *Shell) CloseMenu() {
	s.mu.Lock()
	s.menuOpen = false
	s.mu.Unlock()
}

func (s *Shell) ToggleMenu() {
	s.mu.Lock()
	s.menuOpen = !s.menuOpen
	s.mu.Unlock()
}

func (s *Shell) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}

func (s *Shell) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Nav returns the navigation with Active set for the current path.
func (s *Shell) Nav() []NavItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]NavItem, len(s.items))
	for i, item := range s.items {
		item.Active = IsActive(s.path, item.Path)
		out[i] = item
	}
	return out
}

// LogoutPath is where the shell sends the client after signing out.
func (s *Shell) LogoutPath() string {
	return LoginPath
}

// ShellModel is the serialisable form of a shell, embedded in every portal response.
type ShellModel struct {
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Nav      []NavItem `json:"nav"`
	MenuOpen bool      `json:"menu_open"`
	UserName string    `json:"user_name,omitempty"`
	Logout   string    `json:"logout_path"`
}

func (s *Shell) Model(userName string) ShellModel {
	return ShellModel{
		Title:    s.Title,
		Path:     s.Path(),
		Nav:      s.Nav(),
		MenuOpen: s.MenuOpen(),
		UserName: userName,
		Logout:   s.LogoutPath(),
	}
}
