package auth

import "time"

// User account statuses. New accounts start inactive; a successful sign-in
// rewrites the status to active; five consecutive failed password checks
// flip it to blocked.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBlocked  = "blocked"
)

// Built-in role names. The registry is extensible; these four are seeded.
const (
	RoleSysadmin = "sysadmin"
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleRegular  = "regular"
)

// FailedAttemptLimit blocks an account on the Nth consecutive failure.
const FailedAttemptLimit = 5

// User is a credential record. Role is a denormalized role name, not a
// foreign key: renaming a role does not cascade to its users.
type User struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	MiddleInitial       string     `json:"middleInitial,omitempty"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	Status              string     `json:"status"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	BlockedAt           *time.Time `json:"blockedAt,omitempty"`
	RestoredAt          *time.Time `json:"restoredAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Role bundles permissions under a unique name.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission is an atomic named capability. Names are immutable tokens
// following the {verb}{Entity} convention (createBranch, viewAllUsers).
type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusBlocked:
		return true
	}
	return false
}
