package interfaces

import (
	"context"

	"financeapp/internal/auth"
	"financeapp/internal/finance/application"
	"financeapp/internal/finance/domain"
)

type mockCategoryService struct {
	createFn func(ctx context.Context, caller auth.CallerIdentity, req application.CreateCategoryRequest) (*domain.Category, error)
	getFn    func(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Category, error)
	listFn   func(ctx context.Context, caller auth.CallerIdentity) ([]domain.Category, error)
	updateFn func(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateCategoryRequest) (*domain.Category, error)
	deleteFn func(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

func (m *mockCategoryService) Create(ctx context.Context, caller auth.CallerIdentity, req application.CreateCategoryRequest) (*domain.Category, error) {
	return m.createFn(ctx, caller, req)
}

func (m *mockCategoryService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Category, error) {
	return m.getFn(ctx, caller, id)
}

func (m *mockCategoryService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Category, error) {
	return m.listFn(ctx, caller)
}

func (m *mockCategoryService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateCategoryRequest) (*domain.Category, error) {
	return m.updateFn(ctx, caller, id, req)
}

func (m *mockCategoryService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	return m.deleteFn(ctx, caller, id)
}

type mockBudgetService struct {
	createFn func(ctx context.Context, caller auth.CallerIdentity, req application.CreateBudgetRequest) (*domain.Budget, error)
	getFn    func(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Budget, error)
	listFn   func(ctx context.Context, caller auth.CallerIdentity) ([]domain.Budget, error)
	updateFn func(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateBudgetRequest) (*domain.Budget, error)
	deleteFn func(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

func (m *mockBudgetService) Create(ctx context.Context, caller auth.CallerIdentity, req application.CreateBudgetRequest) (*domain.Budget, error) {
	return m.createFn(ctx, caller, req)
}

func (m *mockBudgetService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Budget, error) {
	return m.getFn(ctx, caller, id)
}

func (m *mockBudgetService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Budget, error) {
	return m.listFn(ctx, caller)
}

func (m *mockBudgetService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateBudgetRequest) (*domain.Budget, error) {
	return m.updateFn(ctx, caller, id, req)
}

func (m *mockBudgetService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	return m.deleteFn(ctx, caller, id)
}

type mockTransactionService struct {
	createFn func(ctx context.Context, caller auth.CallerIdentity, req application.CreateTransactionRequest) (*domain.Transaction, error)
	getFn    func(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Transaction, error)
	listFn   func(ctx context.Context, caller auth.CallerIdentity) ([]domain.Transaction, error)
	updateFn func(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateTransactionRequest) (*domain.Transaction, error)
	deleteFn func(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

func (m *mockTransactionService) Create(ctx context.Context, caller auth.CallerIdentity, req application.CreateTransactionRequest) (*domain.Transaction, error) {
	return m.createFn(ctx, caller, req)
}

func (m *mockTransactionService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Transaction, error) {
	return m.getFn(ctx, caller, id)
}

func (m *mockTransactionService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Transaction, error) {
	return m.listFn(ctx, caller)
}

func (m *mockTransactionService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req application.UpdateTransactionRequest) (*domain.Transaction, error) {
	return m.updateFn(ctx, caller, id, req)
}

func (m *mockTransactionService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	return m.deleteFn(ctx, caller, id)
}
