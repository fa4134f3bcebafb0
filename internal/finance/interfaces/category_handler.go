package interfaces

import (
	"encoding/json"
	"net/http"

	"financeapp/internal/auth"
	"financeapp/internal/finance/application"
)

type CategoryHandler struct {
	service      application.CategoryService
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service application.CategoryService,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req application.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	category, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"message":  "Category created successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categories, err := h.service.List(r.Context(), caller)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Categories retrieved successfully.",
		"categories": categories,
	})
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	category, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Category retrieved successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	var req application.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	category, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Category updated successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
