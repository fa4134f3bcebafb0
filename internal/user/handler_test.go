package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
)

type mockUserService struct {
	users           map[int64]*User
	createErr       error
	deactivated     []int64
	deactivateError error
}

func (m *mockUserService) Create(_ context.Context, req CreateUserRequest) (*User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.NewValidationError("username must not be blank")
	}
	return &User{ID: 1, Username: req.Username, IdPAccountID: "kc-1", Email: req.Email, Active: true}, nil
}

func (m *mockUserService) GetByID(_ context.Context, id int64) (*User, error) {
	found, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (m *mockUserService) List(_ context.Context) ([]User, error) {
	var all []User
	for _, u := range m.users {
		all = append(all, *u)
	}
	return all, nil
}

func (m *mockUserService) Update(_ context.Context, id int64, req UpdateUserRequest) (*User, error) {
	found, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	found.Email = req.Email
	return found, nil
}

func (m *mockUserService) Deactivate(_ context.Context, id int64) error {
	if m.deactivateError != nil {
		return m.deactivateError
	}
	if _, ok := m.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	m.deactivated = append(m.deactivated, id)
	return nil
}

func authedRequest(method, target string, body string, identity auth.CallerIdentity) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
}

func bobIdentity() auth.CallerIdentity {
	return auth.CallerIdentity{Username: "bob", Roles: auth.RoleSet{auth.RoleUser: {}}}
}

func rootIdentity() auth.CallerIdentity {
	return auth.CallerIdentity{Username: "root", Roles: auth.RoleSet{auth.RoleAdmin: {}}}
}

func newUsersMux(handler *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", handler.HandleCreateUser)
	mux.HandleFunc("GET /api/users", handler.HandleListUsers)
	mux.HandleFunc("GET /api/users/{id}", handler.HandleGetUser)
	mux.HandleFunc("PUT /api/users/{id}", handler.HandleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", handler.HandleDeleteUser)
	return mux
}

func TestHandleCreateUser_Success(t *testing.T) {
	handler := NewHandler(&mockUserService{})
	mux := newUsersMux(handler)

	body := `{"username":"alice","password":"pw123","email":"alice@example.com","first_name":"Alice","last_name":"Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response.Status)
	assert.NotContains(t, string(response.Data), "password")
	assert.Contains(t, string(response.Data), `"username":"alice"`)
}

func TestHandleCreateUser_BlankFields(t *testing.T) {
	handler := NewHandler(&mockUserService{})
	mux := newUsersMux(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"","password":"pw"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestHandleCreateUser_DuplicateUsername(t *testing.T) {
	handler := NewHandler(&mockUserService{createErr: apperrors.ErrUsernameTaken})
	mux := newUsersMux(handler)

	body := `{"username":"alice","password":"pw123","email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestHandleCreateUser_PartialProvisioning(t *testing.T) {
	handler := NewHandler(&mockUserService{createErr: &apperrors.PartialProvisioningError{
		Username: "alice", OrphanAccountID: "kc-1",
	}})
	mux := newUsersMux(handler)

	body := `{"username":"alice","password":"pw123","email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestHandleListUsers_NonAdminSeesOnlySelf(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		1: {ID: 1, Username: "alice", Active: true},
		2: {ID: 2, Username: "bob", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users", "", bobIdentity()))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data []User `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "bob", response.Data[0].Username)
}

func TestHandleListUsers_AdminSeesAll(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		1: {ID: 1, Username: "alice", Active: true},
		2: {ID: 2, Username: "bob", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users", "", rootIdentity()))

	res := w.Result()
	defer res.Body.Close()
	var response struct {
		Data []User `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Len(t, response.Data, 2)
}

func TestHandleGetUser_ForbiddenForForeignRecord(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		1: {ID: 1, Username: "alice", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users/1", "", bobIdentity()))

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestHandleGetUser_NotFound(t *testing.T) {
	mux := newUsersMux(NewHandler(&mockUserService{users: map[int64]*User{}}))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users/7", "", rootIdentity()))

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestHandleDeleteUser_SelfService(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		2: {ID: 2, Username: "bob", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/users/2", "", bobIdentity()))

	assert.Equal(t, http.StatusNoContent, w.Result().StatusCode)
	assert.Equal(t, []int64{2}, service.deactivated)
}

func TestHandleDeleteUser_ForbiddenForForeignRecord(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		1: {ID: 1, Username: "alice", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/users/1", "", bobIdentity()))

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	assert.Empty(t, service.deactivated)
}

func TestHandleUpdateUser_AdminOverride(t *testing.T) {
	service := &mockUserService{users: map[int64]*User{
		1: {ID: 1, Username: "alice", Email: "old@example.com", Active: true},
	}}
	mux := newUsersMux(NewHandler(service))

	body := `{"email":"new@example.com","first_name":"Alice","last_name":"Doe"}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/api/users/1", body, rootIdentity()))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "new@example.com", service.users[1].Email)
}
