package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/models"
)

// PostgresTodoRepository implements to-do item persistence against a
// PostgreSQL database. All queries are scoped to the owning user id, so a
// foreign id can only ever produce a NotFound or an empty result.
type PostgresTodoRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository using the
// provided *sql.DB.
func NewPostgresTodoRepository(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{DB: db}
}

// ListByUser fetches all items owned by userID, ascending by position.
func (r *PostgresTodoRepository) ListByUser(ctx context.Context, userID int64) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, description, due_date, status, position, created_at
		FROM todos WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.DueDate, &t.Status, &t.Position, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return todos, nil
}

// Create inserts a new item at the end of the owner's list. The position is
// assigned by the store (highest position + 1), keeping the sequence dense.
func (r *PostgresTodoRepository) Create(ctx context.Context, userID int64, f models.TodoFields) (*models.Todo, error) {
	todo := &models.Todo{
		UserID:      userID,
		Name:        f.Name,
		Description: f.Description,
		DueDate:     f.DueDate,
		Status:      f.Status,
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO todos (user_id, name, description, due_date, status, position)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM todos WHERE user_id = $1))
		RETURNING id, position, created_at
	`, userID, f.Name, f.Description, f.DueDate, f.Status).Scan(&todo.ID, &todo.Position, &todo.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabase("create todo", err)
	}
	return todo, nil
}

// Update overwrites the editable fields of the item with the given id, owned
// by userID. Position is never touched here. A missing or foreign id yields
// NotFound.
func (r *PostgresTodoRepository) Update(ctx context.Context, id, userID int64, f models.TodoFields) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE todos SET name = $1, description = $2, due_date = $3, status = $4
		WHERE id = $5 AND user_id = $6
	`, f.Name, f.Description, f.DueDate, f.Status, id, userID)
	if err != nil {
		return apperror.NewDatabase("update todo", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabase("update todo", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("todo not found", nil)
	}
	return nil
}

// Delete removes the item with the given id, owned by userID, and closes the
// gap it leaves by shifting every higher position down by one. Both steps run
// in a single transaction.
func (r *PostgresTodoRepository) Delete(ctx context.Context, id, userID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewDatabase("delete todo", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx, `
		DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING position
	`, id, userID).Scan(&position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("todo not found", err)
		}
		return apperror.NewDatabase("delete todo", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE todos SET position = position - 1 WHERE user_id = $1 AND position > $2
	`, userID, position); err != nil {
		return apperror.NewDatabase("delete todo", fmt.Errorf("repack positions: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDatabase("delete todo", fmt.Errorf("commit: %w", err))
	}
	return nil
}

// SwapNeighbor exchanges the position of the item with the given id and the
// item at position+delta within the same owner's list. Both rows are locked
// for the duration of the transaction so concurrent moves cannot interleave.
// A missing item yields NotFound; a missing neighbor yields NoNeighbor and
// leaves the list untouched.
func (r *PostgresTodoRepository) SwapNeighbor(ctx context.Context, id, userID int64, delta int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewDatabase("move todo", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx, `
		SELECT position FROM todos WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, id, userID).Scan(&position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("todo not found", err)
		}
		return apperror.NewDatabase("move todo", err)
	}

	// The neighbor lookup is scoped to the same user; an adjacent position
	// held by another user's item must never be a swap target.
	var neighborID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM todos WHERE user_id = $1 AND position = $2 FOR UPDATE
	`, userID, position+delta).Scan(&neighborID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNoNeighbor("no adjacent todo to swap with", err)
		}
		return apperror.NewDatabase("move todo", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE todos SET position = $1 WHERE id = $2
	`, position, neighborID); err != nil {
		return apperror.NewDatabase("move todo", fmt.Errorf("update neighbor: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE todos SET position = $1 WHERE id = $2
	`, position+delta, id); err != nil {
		return apperror.NewDatabase("move todo", fmt.Errorf("update target: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDatabase("move todo", fmt.Errorf("commit: %w", err))
	}
	return nil
}
