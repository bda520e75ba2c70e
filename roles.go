package auth

// UserRole is a role tag granting access to routes that declare it
type UserRole string

const (
	// RoleUser is the baseline role every account gets at registration
	RoleUser UserRole = "user"
	// RoleAdmin grants access to administrative routes
	RoleAdmin UserRole = "admin"
	// RoleSuperUser grants access to everything an admin can do plus
	// destructive maintenance operations
	RoleSuperUser UserRole = "super-user"
)

// DefaultRoles returns the role set assigned to new accounts.
func DefaultRoles() []string {
	return []string{string(RoleUser)}
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperUser:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAdmin,
		RoleSuperUser,
	}
}

// ValidRoles reports whether every tag in the set parses to a known role.
func ValidRoles(roles []string) bool {
	for _, r := range roles {
		if !UserRole(r).IsValid() {
			return false
		}
	}
	return true
}

// HasAnyRole reports whether the two role sets intersect. An empty required
// set means any authenticated identity qualifies.
func HasAnyRole(have []string, required []string) bool {
	if len(required) == 0 {
		return true
	}

	for _, want := range required {
		for _, got := range have {
			if got == want {
				return true
			}
		}
	}

	return false
}
