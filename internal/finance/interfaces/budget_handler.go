package interfaces

import (
	"encoding/json"
	"net/http"

	"financeapp/internal/auth"
	"financeapp/internal/finance/application"
)

type BudgetHandler struct {
	service      application.BudgetService
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewBudgetHandler(
	service application.BudgetService,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *BudgetHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &BudgetHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *BudgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req application.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	budget, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget created successfully.",
		"budget":  budget,
	})
}

func (h *BudgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	budgets, err := h.service.List(r.Context(), caller)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budgets retrieved successfully.",
		"budgets": budgets,
	})
}

func (h *BudgetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid budget id")
		return
	}
	budget, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget retrieved successfully.",
		"budget":  budget,
	})
}

func (h *BudgetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid budget id")
		return
	}
	var req application.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	budget, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget updated successfully.",
		"budget":  budget,
	})
}

func (h *BudgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := parsePathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid budget id")
		return
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		mapServiceError(h.respondError, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
