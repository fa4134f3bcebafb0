package application

import (
	"context"
	"errors"
	"time"

	"financeapp/internal/apperrors"
	"financeapp/internal/auth"
	"financeapp/internal/finance/domain"
)

type CreateTransactionRequest struct {
	CategoryID int64     `json:"category_id"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type UpdateTransactionRequest struct {
	CategoryID int64     `json:"category_id"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TransactionService interface {
	Create(ctx context.Context, caller auth.CallerIdentity, req CreateTransactionRequest) (*domain.Transaction, error)
	Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Transaction, error)
	List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Transaction, error)
	Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateTransactionRequest) (*domain.Transaction, error)
	Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error
}

type transactionService struct {
	repo       domain.TransactionRepository
	categories domain.CategoryRepository
}

func NewTransactionService(repo domain.TransactionRepository, categories domain.CategoryRepository) TransactionService {
	return &transactionService{repo: repo, categories: categories}
}

func validateTransactionFields(amount float64, txType string) error {
	if amount <= 0 {
		return apperrors.NewValidationError("amount must be positive")
	}
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return apperrors.NewValidationError("type must be income or expense")
	}
	return nil
}

func (s *transactionService) resolveCategory(ctx context.Context, caller auth.CallerIdentity, categoryID int64) error {
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

func (s *transactionService) Create(ctx context.Context, caller auth.CallerIdentity, req CreateTransactionRequest) (*domain.Transaction, error) {
	if err := validateTransactionFields(req.Amount, req.Type); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, caller, req.CategoryID); err != nil {
		return nil, err
	}
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	transaction := &domain.Transaction{
		OwnerUsername: caller.Username,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Type:          req.Type,
		OccurredAt:    occurredAt,
	}
	if err := s.repo.Insert(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) Get(ctx context.Context, caller auth.CallerIdentity, id int64) (*domain.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, transaction.OwnerUsername, auth.OpRead) {
		return nil, apperrors.ErrForbidden
	}
	return transaction, nil
}

func (s *transactionService) List(ctx context.Context, caller auth.CallerIdentity) ([]domain.Transaction, error) {
	filter := auth.ScopeList(caller)
	if filter.All {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, filter.Owner)
}

func (s *transactionService) Update(ctx context.Context, caller auth.CallerIdentity, id int64, req UpdateTransactionRequest) (*domain.Transaction, error) {
	if err := validateTransactionFields(req.Amount, req.Type); err != nil {
		return nil, err
	}
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, transaction.OwnerUsername, auth.OpUpdate) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.resolveCategory(ctx, caller, req.CategoryID); err != nil {
		return nil, err
	}
	transaction.CategoryID = req.CategoryID
	transaction.Amount = req.Amount
	transaction.Type = req.Type
	if !req.OccurredAt.IsZero() {
		transaction.OccurredAt = req.OccurredAt
	}
	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) Delete(ctx context.Context, caller auth.CallerIdentity, id int64) error {
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanAccess(caller, transaction.OwnerUsername, auth.OpDelete) {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, transaction.ID)
}
