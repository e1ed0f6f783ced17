package authfile

// roleRank orders the known roles; unknown roles rank below everything.
var roleRank = map[UserRole]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// ValidRole reports whether the role is one of the predefined roles.
func ValidRole(role UserRole) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role meets the minimum required level, so an
// admin passes every member gate without an explicit list per route.
func RoleAtLeast(role, minRole UserRole) bool {
	current, ok := roleRank[role]
	if !ok {
		return false
	}

	min, ok := roleRank[minRole]
	if !ok {
		return false
	}

	return current >= min
}

// ParseRole validates a raw string as a role.
func ParseRole(raw string) (UserRole, bool) {
	return raw, ValidRole(raw)
}
