package auth

// Operation is a single-resource action subject to an ownership check.
type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// IsAdmin reports whether the caller carries the admin role.
func IsAdmin(identity CallerIdentity) bool {
	return identity.Roles.Has(RoleAdmin)
}

// CanAccess decides a single-resource operation. Admins may act on any
// owner's resource; everyone else only on their own. A denied caller gets
// Forbidden, not NotFound: existence is not hidden, only access.
func CanAccess(identity CallerIdentity, resourceOwnerUsername string, op Operation) bool {
	if IsAdmin(identity) {
		return true
	}
	_ = op // every non-list operation carries the same ownership rule
	return resourceOwnerUsername == identity.Username
}

// ListFilter narrows a list result set to what the caller may see. Bulk
// reads never fail on entitlement; they silently drop foreign rows.
type ListFilter struct {
	All   bool
	Owner string
}

// ScopeList returns the filter for list operations: admins see everything,
// other callers only rows they own.
func ScopeList(identity CallerIdentity) ListFilter {
	if IsAdmin(identity) {
		return ListFilter{All: true}
	}
	return ListFilter{Owner: identity.Username}
}

// Match reports whether a row with the given owner passes the filter.
// Filtering is idempotent: applying a filter to its own output changes
// nothing.
func (f ListFilter) Match(ownerUsername string) bool {
	return f.All || f.Owner == ownerUsername
}

// CanReadUser decides access to a single user record: admin or self.
func CanReadUser(identity CallerIdentity, targetUsername string) bool {
	return IsAdmin(identity) || identity.Username == targetUsername
}

// CanUpdateUser decides profile updates: ownership-checked self-service
// with an admin override.
func CanUpdateUser(identity CallerIdentity, targetUsername string) bool {
	return IsAdmin(identity) || identity.Username == targetUsername
}

// CanDeleteUser decides account deactivation. Identity equality overrides
// role-based denial so that users may always close their own account.
func CanDeleteUser(identity CallerIdentity, targetUsername string) bool {
	return IsAdmin(identity) || identity.Username == targetUsername
}
