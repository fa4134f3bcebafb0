package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"financeapp/internal/apperrors"
	"financeapp/internal/finance/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Insert(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (owner_username, category_id, amount, type, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	return r.db.QueryRowContext(ctx, query,
		transaction.OwnerUsername, transaction.CategoryID, transaction.Amount, transaction.Type, transaction.OccurredAt,
	).Scan(&transaction.ID)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := "SELECT id, owner_username, category_id, amount, type, occurred_at FROM transactions WHERE id = $1"
	var transaction domain.Transaction
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&transaction.ID, &transaction.OwnerUsername, &transaction.CategoryID,
		&transaction.Amount, &transaction.Type, &transaction.OccurredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.query(ctx, "SELECT id, owner_username, category_id, amount, type, occurred_at FROM transactions ORDER BY id")
}

func (r *TransactionRepository) FindByOwner(ctx context.Context, ownerUsername string) ([]domain.Transaction, error) {
	return r.query(ctx, "SELECT id, owner_username, category_id, amount, type, occurred_at FROM transactions WHERE owner_username = $1 ORDER BY id", ownerUsername)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(
			&transaction.ID, &transaction.OwnerUsername, &transaction.CategoryID,
			&transaction.Amount, &transaction.Type, &transaction.OccurredAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	query := "UPDATE transactions SET category_id = $1, amount = $2, type = $3, occurred_at = $4 WHERE id = $5"
	result, err := r.db.ExecContext(ctx, query,
		transaction.CategoryID, transaction.Amount, transaction.Type, transaction.OccurredAt, transaction.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
