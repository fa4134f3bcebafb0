// Package auth derives a caller identity from verified token claims and
// decides what that caller may do. Decisions are pure functions over the
// identity; nothing in this package performs I/O.
package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"financeapp/internal/apperrors"
)

const usernameClaim = "preferred_username"

// Role is a normalized role name carried in token claims.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// RoleSet is a deduplicated set of roles.
type RoleSet map[Role]struct{}

func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) add(role Role) {
	s[role] = struct{}{}
}

// CallerIdentity is the per-request identity derived from a token. It is
// passed explicitly into every service call and never stored globally.
type CallerIdentity struct {
	Username string
	Roles    RoleSet
}

// NormalizeRole maps a raw claim value onto a role name. Realm-level claims
// arrive prefixed (ROLE_admin) while client-scoped claims arrive bare
// (admin); both normalize to the same role.
func NormalizeRole(raw string) Role {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "role_")
	return Role(normalized)
}

// IdentityFromClaims builds a CallerIdentity from the claims of an
// already-verified token. Roles are the union of the top-level roles claim
// and the roles nested under this application's own resource_access entry;
// entries for other clients sharing the identity provider are ignored.
func IdentityFromClaims(claims jwt.MapClaims, appClientID string) (CallerIdentity, error) {
	username, _ := claims[usernameClaim].(string)
	if strings.TrimSpace(username) == "" {
		return CallerIdentity{}, apperrors.ErrMalformedToken
	}

	roles := RoleSet{}
	for _, raw := range stringSlice(claims["roles"]) {
		roles.add(NormalizeRole(raw))
	}
	for _, raw := range resourceRoles(claims, appClientID) {
		roles.add(NormalizeRole(raw))
	}

	return CallerIdentity{Username: username, Roles: roles}, nil
}

func resourceRoles(claims jwt.MapClaims, appClientID string) []string {
	resourceAccess, ok := claims["resource_access"].(map[string]interface{})
	if !ok {
		return nil
	}
	appEntry, ok := resourceAccess[appClientID].(map[string]interface{})
	if !ok {
		return nil
	}
	return stringSlice(appEntry["roles"])
}

func stringSlice(raw interface{}) []string {
	values, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
