// Package router holds the role guard, the portal routing tables and the
// portal shell state. Nothing here touches HTTP; internal/api/handler adapts
// it to gin.
package router

import "smartalert/backend/internal/models"

const (
	LoginPath              = "/login"
	CitizenDashboardPath   = "/portal/dashboard"
	AuthorityDashboardPath = "/authority/dashboard"
)

// Outcome of a guard decision.
type Outcome int

const (
	Render Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "render"
}

// Decision is either Render(Path) or Redirect(Path).
type Decision struct {
	Outcome Outcome
	Path    string
}

// Guard decides whether path may be rendered for sess. An empty requiredRole
// only requires authentication.
func Guard(path string, requiredRole models.Role, sess models.Session) Decision {
	sess = sess.Normalize()

	if !sess.Authenticated {
		return Decision{Outcome: Redirect, Path: LoginPath}
	}
	if requiredRole != "" && sess.Role != requiredRole {
		return Decision{Outcome: Redirect, Path: HomeFor(sess.Role)}
	}
	return Decision{Outcome: Render, Path: path}
}

// HomeFor is the dashboard a role lands on after sign-in or a role mismatch.
func HomeFor(role models.Role) string {
	if role == models.RoleAuthority {
		return AuthorityDashboardPath
	}
	return CitizenDashboardPath
}
