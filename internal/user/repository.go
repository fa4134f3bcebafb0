package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"financeapp/internal/apperrors"
)

// Repository is the plain keyed store behind the provisioning service. No
// business rules live here; ordering and validation belong to the service.
type Repository interface {
	insert(ctx context.Context, user *User) error
	findByID(ctx context.Context, id int64) (*User, error)
	findByUsername(ctx context.Context, username string) (*User, error)
	findAll(ctx context.Context) ([]User, error)
	existsByID(ctx context.Context, id int64) (bool, error)
	save(ctx context.Context, user *User) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{db: db}
}

func (r *userRepository) insert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, idp_account_id, email, first_name, last_name, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.IdPAccountID, user.Email, user.FirstName, user.LastName, user.Active,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}
	return nil
}

func (r *userRepository) findByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, idp_account_id, email, first_name, last_name, active
		FROM users
		WHERE id = $1
	`
	var user User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.IdPAccountID, &user.Email, &user.FirstName, &user.LastName, &user.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) findByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, idp_account_id, email, first_name, last_name, active
		FROM users
		WHERE username = $1
	`
	var user User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.IdPAccountID, &user.Email, &user.FirstName, &user.LastName, &user.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) findAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, idp_account_id, email, first_name, last_name, active
		FROM users
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %v", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.IdPAccountID, &user.Email, &user.FirstName, &user.LastName, &user.Active,
		); err != nil {
			return nil, fmt.Errorf("could not scan user: %v", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) existsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

// save updates the mutable fields of an existing record. Username and the
// IdP account id are immutable once set.
func (r *userRepository) save(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, active = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, user.Email, user.FirstName, user.LastName, user.Active, user.ID)
	if err != nil {
		return fmt.Errorf("could not save user: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not save user: %v", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
