package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
	"financeapp/internal/finance/application"
	"financeapp/internal/finance/domain"
)

func newTransactionMux(handler *TransactionHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/transactions", handler.HandleCreate)
	mux.HandleFunc("GET /api/transactions", handler.HandleList)
	mux.HandleFunc("GET /api/transactions/{id}", handler.HandleGet)
	mux.HandleFunc("PUT /api/transactions/{id}", handler.HandleUpdate)
	mux.HandleFunc("DELETE /api/transactions/{id}", handler.HandleDelete)
	return mux
}

func TestTransactionHandler_CreateReturnsCreated(t *testing.T) {
	service := &mockTransactionService{
		createFn: func(_ context.Context, caller auth.CallerIdentity, req application.CreateTransactionRequest) (*domain.Transaction, error) {
			return &domain.Transaction{
				ID: 1, OwnerUsername: caller.Username, CategoryID: req.CategoryID,
				Amount: req.Amount, Type: req.Type, OccurredAt: time.Now().UTC(),
			}, nil
		},
	}
	mux := newTransactionMux(NewTransactionHandler(service, respondJSON, respondError))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/transactions",
		`{"category_id":1,"amount":12.99,"type":"expense"}`, bobIdentity))

	require.Equal(t, http.StatusCreated, rec.Code)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	transaction := payload["transaction"].(map[string]interface{})
	assert.Equal(t, "expense", transaction["type"])
}

func TestTransactionHandler_CreateInvalidTypeBadRequest(t *testing.T) {
	service := &mockTransactionService{
		createFn: func(_ context.Context, _ auth.CallerIdentity, _ application.CreateTransactionRequest) (*domain.Transaction, error) {
			return nil, apperrors.NewValidationError("type must be income or expense")
		},
	}
	mux := newTransactionMux(NewTransactionHandler(service, respondJSON, respondError))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/transactions",
		`{"category_id":1,"amount":12.99,"type":"transfer"}`, bobIdentity))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHandler_ListReturnsServicePayload(t *testing.T) {
	service := &mockTransactionService{
		listFn: func(_ context.Context, _ auth.CallerIdentity) ([]domain.Transaction, error) {
			return []domain.Transaction{
				{ID: 1, OwnerUsername: "bob", CategoryID: 1, Amount: 5, Type: domain.TransactionTypeExpense},
				{ID: 2, OwnerUsername: "bob", CategoryID: 1, Amount: 9, Type: domain.TransactionTypeIncome},
			}, nil
		},
	}
	mux := newTransactionMux(NewTransactionHandler(service, respondJSON, respondError))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/transactions", "", bobIdentity))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload["transactions"], 2)
}

func TestTransactionHandler_GetForeignRowForbidden(t *testing.T) {
	service := &mockTransactionService{
		getFn: func(_ context.Context, _ auth.CallerIdentity, _ int64) (*domain.Transaction, error) {
			return nil, apperrors.ErrForbidden
		},
	}
	mux := newTransactionMux(NewTransactionHandler(service, respondJSON, respondError))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/transactions/9", "", bobIdentity))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransactionHandler_DeleteMissingRowNotFound(t *testing.T) {
	service := &mockTransactionService{
		deleteFn: func(_ context.Context, _ auth.CallerIdentity, _ int64) error {
			return apperrors.ErrNotFound
		},
	}
	mux := newTransactionMux(NewTransactionHandler(service, respondJSON, respondError))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/transactions/404", "", bobIdentity))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
