package application

import (
	"context"
	"errors"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
	"financeapp/internal/finance/domain"
)

type CreateBudgetRequest struct {
	CategoryID  int64   `json:"category_id"`
	LimitAmount float64 `json:"limit_amount"`
}

type UpdateBudgetRequest struct {
	CategoryID  int64   `json:"category_id"`
	LimitAmount float64 `json:"limit_amount"`
}

type BudgetService interface {
	Create(ctx context.Context, caller auth.CallerIdentity, req CreateBudgetRequest) (*domain.Budget, error)
	Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Budget, error)
	List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Budget, error)
	Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateBudgetRequest) (*domain.Budget, error)
	Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

type budgetService struct {
	repo       domain.BudgetRepository
	categories domain.CategoryRepository
}

func NewBudgetService(repo domain.BudgetRepository, categories domain.CategoryRepository) BudgetService {
	return &budgetService{repo: repo, categories: categories}
}

// resolveCategory checks that the referenced category exists and that the
// caller is allowed to see it. A category hidden from the caller reads as
// nonexistent so ids cannot be probed across owners.
func (s *budgetService) resolveCategory(ctx context.Context, caller auth.CallerIdentity, categoryID int64) error {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("category does not exist")
		}
		return err
	}
	if !auth.CanAccess(caller, category.OwnerUsername, auth.OpRead) {
		return apperrors.NewValidationError("category does not exist")
	}
	return nil
}

func (s *budgetService) Create(ctx context.Context, caller auth.CallerIdentity, req CreateBudgetRequest) (*domain.Budget, error) {
	if req.LimitAmount <= 0 {
		return nil, apperrors.NewValidationError("limit_amount must be positive")
	}
	if err := s.resolveCategory(ctx, caller, req.CategoryID); err != nil {
		return nil, err
	}
	budget := &domain.Budget{
		OwnerUsername: caller.Username,
		CategoryID:    req.CategoryID,
		LimitAmount:   req.LimitAmount,
	}
	if err := s.repo.Insert(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, budget.OwnerUsername, auth.OpRead) {
		return nil, apperrors.ErrForbidden
	}
	return budget, nil
}

func (s *budgetService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Budget, error) {
	filter := auth.ScopeList(caller)
	if filter.All {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, filter.Owner)
}

func (s *budgetService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateBudgetRequest) (*domain.Budget, error) {
	if req.LimitAmount <= 0 {
		return nil, apperrors.NewValidationError("limit_amount must be positive")
	}
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, budget.OwnerUsername, auth.OpUpdate) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.resolveCategory(ctx, caller, req.CategoryID); err != nil {
		return nil, err
	}
	budget.CategoryID = req.CategoryID
	budget.LimitAmount = req.LimitAmount
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanAccess(caller, budget.OwnerUsername, auth.OpDelete) {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, budget.ID)
}
