package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"financeapp/internal/apperrors"
	"financeapp/internal/finance/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Insert(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (owner_username, name, description)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	return r.db.QueryRowContext(ctx, query, category.OwnerUsername, category.Name, category.Description).Scan(&category.ID)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := "SELECT id, owner_username, name, description FROM categories WHERE id = $1"
	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.OwnerUsername, &category.Name, &category.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	return r.query(ctx, "SELECT id, owner_username, name, description FROM categories ORDER BY id")
}

func (r *CategoryRepository) FindByOwner(ctx context.Context, ownerUsername string) ([]domain.Category, error) {
	return r.query(ctx, "SELECT id, owner_username, name, description FROM categories WHERE owner_username = $1 ORDER BY id", ownerUsername)
}

func (r *CategoryRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.OwnerUsername, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := "UPDATE categories SET name = $1, description = $2 WHERE id = $3"
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
