// Package repository provides PostgreSQL persistence for users and to-do items.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = pq.ErrorCode("23505")

// PostgresUserRepository implements user persistence against a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Create inserts a new user and returns the stored record.
// A duplicate username yields a Conflict error; the existing row is untouched.
func (r *PostgresUserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, username, email, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperror.NewConflict("username already taken", err)
		}
		return nil, apperror.NewDatabase("create user", err)
	}
	return user, nil
}

// ByUsername fetches a user by username.
func (r *PostgresUserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.one(ctx, `
		SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1
	`, username)
}

// ByID fetches a user by id.
func (r *PostgresUserRepository) ByID(ctx context.Context, id int64) (*models.User, error) {
	return r.one(ctx, `
		SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1
	`, id)
}

func (r *PostgresUserRepository) one(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("user not found", err)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
