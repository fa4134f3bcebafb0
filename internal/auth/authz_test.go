package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adminIdentity(username string) CallerIdentity {
	return CallerIdentity{Username: username, Roles: RoleSet{RoleAdmin: {}, RoleUser: {}}}
}

func userIdentity(username string) CallerIdentity {
	return CallerIdentity{Username: username, Roles: RoleSet{RoleUser: {}}}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(adminIdentity("root")))
	assert.False(t, IsAdmin(userIdentity("bob")))
	assert.False(t, IsAdmin(CallerIdentity{Username: "nobody", Roles: RoleSet{}}))
}

func TestCanAccess_AdminBypassesOwnership(t *testing.T) {
	admin := adminIdentity("root")
	for _, owner := range []string{"root", "alice", "bob", ""} {
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			assert.True(t, CanAccess(admin, owner, op))
		}
	}
}

func TestCanAccess_NonAdminRequiresOwnership(t *testing.T) {
	bob := userIdentity("bob")
	for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
		assert.True(t, CanAccess(bob, "bob", op))
		assert.False(t, CanAccess(bob, "alice", op))
	}
}

func TestScopeList_Admin(t *testing.T) {
	filter := ScopeList(adminIdentity("root"))
	assert.True(t, filter.All)
	assert.True(t, filter.Match("alice"))
	assert.True(t, filter.Match("bob"))
}

func TestScopeList_NonAdmin(t *testing.T) {
	filter := ScopeList(userIdentity("bob"))
	assert.False(t, filter.All)
	assert.True(t, filter.Match("bob"))
	assert.False(t, filter.Match("alice"))
}

func TestScopeList_FilteringIsIdempotent(t *testing.T) {
	owners := []string{"alice", "bob", "bob", "carol", "bob"}
	filter := ScopeList(userIdentity("bob"))

	var once []string
	for _, owner := range owners {
		if filter.Match(owner) {
			once = append(once, owner)
		}
	}

	var twice []string
	for _, owner := range once {
		if filter.Match(owner) {
			twice = append(twice, owner)
		}
	}

	assert.Equal(t, []string{"bob", "bob", "bob"}, once)
	assert.Equal(t, once, twice)
}

func TestCanDeleteUser_SelfServiceException(t *testing.T) {
	// no roles at all, still allowed to close the own account
	identity := CallerIdentity{Username: "bob", Roles: RoleSet{}}
	assert.True(t, CanDeleteUser(identity, "bob"))
	assert.False(t, CanDeleteUser(identity, "alice"))
	assert.True(t, CanDeleteUser(adminIdentity("root"), "alice"))
}

func TestCanReadAndUpdateUser(t *testing.T) {
	bob := userIdentity("bob")
	assert.True(t, CanReadUser(bob, "bob"))
	assert.False(t, CanReadUser(bob, "alice"))
	assert.True(t, CanUpdateUser(bob, "bob"))
	assert.False(t, CanUpdateUser(bob, "alice"))

	admin := adminIdentity("root")
	assert.True(t, CanReadUser(admin, "alice"))
	assert.True(t, CanUpdateUser(admin, "alice"))
}
