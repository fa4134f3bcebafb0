package application

import (
	"context"
	"strings"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
	"financeapp/internal/finance/domain"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context, caller auth.CallerIdentity, req CreateCategoryRequest) (*domain.Category, error)
	Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Category, error)
	List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Category, error)
	Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateCategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

type categoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, caller auth.CallerIdentity, req CreateCategoryRequest) (*domain.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	category := &domain.Category{
		OwnerUsername: caller.Username,
		Name:          req.Name,
		Description:   req.Description,
	}
	if err := s.repo.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, category.OwnerUsername, auth.OpRead) {
		return nil, apperrors.ErrForbidden
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Category, error) {
	filter := auth.ScopeList(caller)
	if filter.All {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, filter.Owner)
}

func (s *categoryService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateCategoryRequest) (*domain.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, category.OwnerUsername, auth.OpUpdate) {
		return nil, apperrors.ErrForbidden
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanAccess(caller, category.OwnerUsername, auth.OpDelete) {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, category.ID)
}
