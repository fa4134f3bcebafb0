package domain

import "context"

// Category is an owned resource: OwnerUsername is set from the creating
// caller's token and never changes afterwards.
type Category struct {
	ID            int64  `json:"id"`
	OwnerUsername string `json:"owner_username"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

type CategoryRepository interface {
	Insert(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	FindByOwner(ctx context.Context, ownerUsername string) ([]Category, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
}
