package services

import (
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/models"
)

// NavItem is one navbar link. The list is a display hint; routes still
// enforce their own access rules.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigation returns the navbar for a signed-in user, or for a guest when
// sess is nil.
func Navigation(sess *auth.Session) []NavItem {
	switch {
	case sess == nil:
		return []NavItem{
			{Label: "Home", Path: "/home"},
			{Label: "Job List", Path: "/jobs"},
			{Label: "Login", Path: "/login"},
		}
	case sess.Role == models.RoleAdmin:
		return []NavItem{
			{Label: "Home", Path: "/home"},
			{Label: "Job List", Path: "/admin/jobs"},
			{Label: "Profile", Path: "/profile"},
			{Label: "Logout", Path: "/"},
		}
	default:
		return []NavItem{
			{Label: "Home", Path: "/home"},
			{Label: "Job List", Path: "/jobs"},
			{Label: "Profile", Path: "/profile"},
			{Label: "Logout", Path: "/"},
		}
	}
}
