package domain

import "time"

// Roles with behaviour attached. Any other role string is stored as given.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User is the document kept at users/{uid}. UID always equals the identity
// provider account uid.
type User struct {
	UID             string     `json:"uid"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName"`
	Role            string     `json:"role"`
	Department      string     `json:"department"`
	EmployeeID      string     `json:"employeeId"`
	Disabled        bool       `json:"disabled"`
	PendingApproval bool       `json:"pendingApproval"`
	EmailVerified   bool       `json:"emailVerified"`
	CreationTime    time.Time  `json:"creationTime"`
	LastUpdated     time.Time  `json:"lastUpdated"`
	LastLogin       *time.Time `json:"lastLogin"`
	LastActivity    *time.Time `json:"lastActivity"`
	CreatedBy       string     `json:"createdBy"`
	UpdatedBy       string     `json:"updatedBy"`
}

// IsAdmin reports whether the user may run admin actions.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RequiresApproval reports whether a new user with role must be approved
// before the account is usable.
func RequiresApproval(role string) bool { return role == RoleManager }

// ActorOrDefault is the value recorded in createdBy/updatedBy.
func ActorOrDefault(uid string) string {
	if uid == "" {
		return RoleAdmin
	}
	return uid
}
