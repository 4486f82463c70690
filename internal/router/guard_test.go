package router_test

import (
	"testing"

	"smartalert/backend/internal/models"
	"smartalert/backend/internal/router"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	citizen := models.NewSession("s1", "u-1", "John", models.RoleUser)
	officer := models.NewSession("s2", "u-2", "Officer", models.RoleAuthority)

	tests := []struct {
		name     string
		path     string
		required models.Role
		session  models.Session
		want     router.Decision
	}{
		{"guest to citizen portal", "/portal/complaints", models.RoleUser, models.GuestSession(), router.Decision{Outcome: router.Redirect, Path: "/login"}},
		{"guest to authority portal", "/authority/dashboard", models.RoleAuthority, models.GuestSession(), router.Decision{Outcome: router.Redirect, Path: "/login"}},
		{"citizen to authority portal", "/authority/complaints", models.RoleAuthority, citizen, router.Decision{Outcome: router.Redirect, Path: "/portal/dashboard"}},
		{"authority to citizen portal", "/portal/map", models.RoleUser, officer, router.Decision{Outcome: router.Redirect, Path: "/authority/dashboard"}},
		{"citizen at home", "/portal/complaints/C-1", models.RoleUser, citizen, router.Decision{Outcome: router.Render, Path: "/portal/complaints/C-1"}},
		{"authority at home", "/authority/settings", models.RoleAuthority, officer, router.Decision{Outcome: router.Render, Path: "/authority/settings"}},
		{"any authenticated role", "/report", "", officer, router.Decision{Outcome: router.Render, Path: "/report"}},
		{"forged role without auth", "/authority/dashboard", models.RoleAuthority, models.Session{Role: models.RoleAuthority}, router.Decision{Outcome: router.Redirect, Path: "/login"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, router.Guard(tt.path, tt.required, tt.session))
		})
	}
}

func TestGuard_IsPure(t *testing.T) {
	sess := models.NewSession("s1", "u-1", "John", models.RoleUser)

	first := router.Guard("/authority/dashboard", models.RoleAuthority, sess)
	second := router.Guard("/authority/dashboard", models.RoleAuthority, sess)

	assert.Equal(t, first, second)
	assert.True(t, sess.Authenticated, "guard must not modify the session")
}
