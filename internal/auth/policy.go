package auth

import "fmt"

// Principal is the authenticated identity attached to a request, with the
// role's permission names resolved once at authentication time.
type Principal struct {
	User        *User
	Permissions map[string]struct{}
}

// NewPrincipal constructs a principal with preloaded permission names.
func NewPrincipal(user *User, perms []Permission) Principal {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p.Name] = struct{}{}
	}
	return Principal{User: user, Permissions: set}
}

// HasPermission reports whether the principal can execute the named capability.
func (p Principal) HasPermission(name string) bool {
	_, ok := p.Permissions[name]
	return ok
}

// Policy decides allow/deny for a principal. A nil error means allow; a
// deny wraps ErrForbidden and names the missing capability or role.
type Policy func(Principal) error

// RoleAtLeast allows the exact role, or sysadmin which passes every role
// gate. This is membership, not rank ordering: admin does not satisfy a
// manager gate.
func RoleAtLeast(role string) Policy {
	return func(p Principal) error {
		if p.User == nil {
			return ErrUnauthorized
		}
		if p.User.Role == role || p.User.Role == RoleSysadmin {
			return nil
		}
		return fmt.Errorf("%w: requires role %s", ErrForbidden, role)
	}
}

// HasPermission allows principals whose resolved set contains name.
func HasPermission(name string) Policy {
	return func(p Principal) error {
		if p.HasPermission(name) {
			return nil
		}
		return fmt.Errorf("%w: no permission to %s", ErrForbidden, name)
	}
}

// AllOf combines policies with logical AND, reporting the first denial.
func AllOf(policies ...Policy) Policy {
	return func(p Principal) error {
		for _, policy := range policies {
			if err := policy(p); err != nil {
				return err
			}
		}
		return nil
	}
}
