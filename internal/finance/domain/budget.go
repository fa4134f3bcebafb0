package domain

import "context"

// Budget caps spending for one of the owner's categories.
type Budget struct {
	ID            int64   `json:"id"`
	OwnerUsername string  `json:"owner_username"`
	CategoryID    int64   `json:"category_id"`
	LimitAmount   float64 `json:"limit_amount"`
}

type BudgetRepository interface {
	Insert(ctx context.Context, budget *Budget) error
	FindByID(ctx context.Context, id int64) (*Budget, error)
	FindAll(ctx context.Context) ([]Budget, error)
	FindByOwner(ctx context.Context, ownerUsername string) ([]Budget, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id int64) error
}
