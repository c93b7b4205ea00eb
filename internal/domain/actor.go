package domain

// Role is the closed set of access roles. There is no subclassing or
// per-company role table: every capability check dispatches on these
// three values.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity every service operation receives
// explicitly. It is built from JWT claims in the auth middleware and never
// read from ambient/global state, so services stay testable without gin.
type Actor struct {
	EmployeeID string
	Role       Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsManager() bool { return a.Role == RoleManager }

// Visibility describes how far an actor can see into other employees' rows.
type Visibility string

const (
	VisibilitySelf Visibility = "SELF"
	VisibilityTeam Visibility = "TEAM"
	VisibilityAll  Visibility = "ALL"
)
