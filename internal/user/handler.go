package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
)

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// HandleCreateUser is the public registration endpoint. The password goes
// to the identity provider only and never appears in the response.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.userService.Create(r.Context(), req)
	if err != nil {
		switch {
		case apperrors.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrUsernameTaken):
			respondError(w, http.StatusConflict, "Username already taken")
		case apperrors.IsPartialProvisioningError(err):
			respondError(w, http.StatusInternalServerError, "User provisioning incomplete, contact support")
		default:
			log.Printf("could not register user %q: %v", req.Username, err)
			respondError(w, http.StatusInternalServerError, "Could not register user")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   created,
	})
}

// HandleListUsers returns every user for admins and only the caller's own
// record otherwise. Bulk reads narrow silently, they never 403.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Could not list users")
		return
	}

	filter := auth.ScopeList(identity)
	visible := make([]User, 0, len(users))
	for _, u := range users {
		if filter.Match(u.Username) {
			visible = append(visible, u)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   visible,
	})
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	found, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not load user")
		return
	}

	if !auth.CanReadUser(identity, found.Username) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   found,
	})
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	existing, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not load user")
		return
	}

	if !auth.CanUpdateUser(identity, existing.Username) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case apperrors.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			respondError(w, http.StatusInternalServerError, "Could not update user")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   updated,
	})
}

// HandleDeleteUser triggers the deactivate flow. Admins may target anyone;
// everyone may close their own account regardless of role.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	existing, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not load user")
		return
	}

	if !auth.CanDeleteUser(identity, existing.Username) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.userService.Deactivate(r.Context(), id); err != nil {
		if apperrors.IsProvisioningError(err) {
			log.Printf("could not deactivate user %q: %v", existing.Username, err)
			respondError(w, http.StatusInternalServerError, "Could not deactivate user")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not deactivate user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
