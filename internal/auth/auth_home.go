package auth

import "go-hrdash/internal/shared/contextutil"

// HomePathForRole is the dashboard page a user lands on after login.
func HomePathForRole(role string) string {
	switch role {
	case contextutil.RoleAdmin, contextutil.RoleHR:
		return "/admin/dashboard"
	case contextutil.RoleManager:
		return "/manager/leaves"
	default:
		return "/employee/leaves"
	}
}
