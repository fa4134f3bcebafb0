package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"financeapp/internal/apperrors"
	"financeapp/internal/finance/domain"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Insert(ctx context.Context, budget *domain.Budget) error {
	query := `
		INSERT INTO budgets (owner_username, category_id, limit_amount)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	return r.db.QueryRowContext(ctx, query, budget.OwnerUsername, budget.CategoryID, budget.LimitAmount).Scan(&budget.ID)
}

func (r *BudgetRepository) FindByID(ctx context.Context, id int64) (*domain.Budget, error) {
	query := "SELECT id, owner_username, category_id, limit_amount FROM budgets WHERE id = $1"
	var budget domain.Budget
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&budget.ID, &budget.OwnerUsername, &budget.CategoryID, &budget.LimitAmount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) FindAll(ctx context.Context) ([]domain.Budget, error) {
	return r.query(ctx, "SELECT id, owner_username, category_id, limit_amount FROM budgets ORDER BY id")
}

func (r *BudgetRepository) FindByOwner(ctx context.Context, ownerUsername string) ([]domain.Budget, error) {
	return r.query(ctx, "SELECT id, owner_username, category_id, limit_amount FROM budgets WHERE owner_username = $1 ORDER BY id", ownerUsername)
}

func (r *BudgetRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(&budget.ID, &budget.OwnerUsername, &budget.CategoryID, &budget.LimitAmount); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM budgets WHERE id = $1)"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	query := "UPDATE budgets SET category_id = $1, limit_amount = $2 WHERE id = $3"
	result, err := r.db.ExecContext(ctx, query, budget.CategoryID, budget.LimitAmount, budget.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
