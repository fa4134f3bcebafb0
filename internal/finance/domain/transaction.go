package domain

import (
	"context"
	"time"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is a single income or expense entry in a category.
type Transaction struct {
	ID            int64     `json:"id"`
	OwnerUsername string    `json:"owner_username"`
	CategoryID    int64     `json:"category_id"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type TransactionRepository interface {
	Insert(ctx context.Context, transaction *Transaction) error
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	FindAll(ctx context.Context) ([]Transaction, error)
	FindByOwner(ctx context.Context, ownerUsername string) ([]Transaction, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, id int64) error
}
