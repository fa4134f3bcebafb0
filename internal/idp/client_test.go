package idp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"financeapp/internal/apperrors"
)

type fakeKeycloak struct {
	users         []map[string]string
	createStatus  int
	deleteStatus  int
	roleMissing   bool
	assignedRoles []string
	tokenRequests int
}

func (f *fakeKeycloak) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenRequests++
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "admin-token"})
	})

	mux.HandleFunc("POST /admin/realms/finance/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		status := f.createStatus
		if status == 0 {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
	})

	mux.HandleFunc("GET /admin/realms/finance/users", func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		var matches []map[string]string
		for _, u := range f.users {
			if u["username"] == username {
				matches = append(matches, u)
			}
		}
		json.NewEncoder(w).Encode(matches)
	})

	mux.HandleFunc("GET /admin/realms/finance/roles/{role}", func(w http.ResponseWriter, r *http.Request) {
		if f.roleMissing {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "role-id-1", "name": r.PathValue("role")})
	})

	mux.HandleFunc("POST /admin/realms/finance/users/{id}/role-mappings/realm", func(w http.ResponseWriter, r *http.Request) {
		var reps []struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reps); err != nil || len(reps) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.assignedRoles = append(f.assignedRoles, reps[0].Name)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("DELETE /admin/realms/finance/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		status := f.deleteStatus
		if status == 0 {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
	})

	return httptest.NewServer(mux)
}

func newTestClient(srvURL string) *KeycloakClient {
	return NewKeycloakClient(srvURL, "finance", "admin", "admin-pw")
}

func TestCreateAccount_ReturnsResolvedID(t *testing.T) {
	fake := &fakeKeycloak{
		users: []map[string]string{{"id": "kc-123", "username": "alice"}},
	}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	id, err := client.CreateAccount(context.Background(), NewAccount{
		Username: "alice", Password: "pw123", Email: "alice@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "kc-123", id)
	assert.Greater(t, fake.tokenRequests, 0)
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	fake := &fakeKeycloak{createStatus: http.StatusConflict}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateAccount(context.Background(), NewAccount{Username: "alice", Password: "pw123"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestCreateAccount_ProviderError(t *testing.T) {
	fake := &fakeKeycloak{createStatus: http.StatusInternalServerError}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateAccount(context.Background(), NewAccount{Username: "alice", Password: "pw123"})
	assert.True(t, apperrors.IsProvisioningError(err))
}

func TestFindAccountIDByUsername_NoMatch(t *testing.T) {
	fake := &fakeKeycloak{}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FindAccountIDByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindAccountIDByUsername_MultipleMatchesTakesFirst(t *testing.T) {
	fake := &fakeKeycloak{
		users: []map[string]string{
			{"id": "kc-first", "username": "alice"},
			{"id": "kc-second", "username": "alice"},
		},
	}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	id, err := client.FindAccountIDByUsername(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, "kc-first", id)
}

func TestAssignRealmRole(t *testing.T) {
	fake := &fakeKeycloak{}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.AssignRealmRole(context.Background(), "kc-123", "user")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user"}, fake.assignedRoles)
}

func TestAssignRealmRole_MissingRole(t *testing.T) {
	fake := &fakeKeycloak{roleMissing: true}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.AssignRealmRole(context.Background(), "kc-123", "nonexistent")
	assert.True(t, apperrors.IsProvisioningError(err))
}

func TestDeleteAccount_NotFound(t *testing.T) {
	fake := &fakeKeycloak{deleteStatus: http.StatusNotFound}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.DeleteAccount(context.Background(), "kc-gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteAccount_Success(t *testing.T) {
	fake := &fakeKeycloak{}
	srv := fake.server(t)
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.DeleteAccount(context.Background(), "kc-123")
	assert.NoError(t, err)
}
