package rbac

import "go-hrdash/internal/shared/contextutil"

const (
	ResourceLeave     = "leave"
	ResourceEmployee  = "employee"
	ResourceApplicant = "applicant"
	ResourceDashboard = "dashboard"
	ResourceRBAC      = "rbac"

	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionExport  = "export"
	ActionManage  = "manage"
)

const anyDomain = "*"

// Catalog lists every action a resource supports.
var Catalog = map[string][]string{
	ResourceLeave:     {ActionRead, ActionCreate, ActionApprove, ActionExport},
	ResourceEmployee:  {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceApplicant: {ActionRead, ActionManage, ActionExport},
	ResourceDashboard: {ActionRead},
	ResourceRBAC:      {ActionManage},
}

var Roles = []string{
	contextutil.RoleAdmin,
	contextutil.RoleHR,
	contextutil.RoleManager,
	contextutil.RoleEmployee,
}

// roleInheritance: each role also holds every permission of the role it
// points to.
var roleInheritance = [][]string{
	{contextutil.RoleManager, contextutil.RoleEmployee},
	{contextutil.RoleHR, contextutil.RoleManager},
	{contextutil.RoleAdmin, contextutil.RoleHR},
}

// defaultPermissions apply to every company.
var defaultPermissions = [][]string{
	{contextutil.RoleEmployee, ResourceLeave, ActionRead},
	{contextutil.RoleEmployee, ResourceLeave, ActionCreate},

	{contextutil.RoleManager, ResourceLeave, ActionApprove},
	{contextutil.RoleManager, ResourceLeave, ActionExport},
	{contextutil.RoleManager, ResourceEmployee, ActionRead},
	{contextutil.RoleManager, ResourceDashboard, ActionRead},
	{contextutil.RoleManager, ResourceApplicant, ActionRead},

	{contextutil.RoleHR, ResourceEmployee, ActionCreate},
	{contextutil.RoleHR, ResourceEmployee, ActionUpdate},
	{contextutil.RoleHR, ResourceEmployee, ActionDelete},
	{contextutil.RoleHR, ResourceApplicant, ActionManage},
	{contextutil.RoleHR, ResourceApplicant, ActionExport},

	{contextutil.RoleAdmin, ResourceRBAC, ActionManage},
}

func isKnownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func isKnownPermission(resource, action string) bool {
	for _, a := range Catalog[resource] {
		if a == action {
			return true
		}
	}
	return false
}

func isDefaultPermission(role, resource, action string) bool {
	for _, p := range defaultPermissions {
		if p[0] == role && p[1] == resource && p[2] == action {
			return true
		}
	}
	return false
}
