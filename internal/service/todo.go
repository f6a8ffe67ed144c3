package service

import (
	"context"

	"github.com/avelichko/todolist/internal/models"
)

// TodoRepository defines the persistence operations needed by the TodoService.
// Every method is scoped to the owning user id.
type TodoRepository interface {
	// ListByUser returns the user's items ascending by position.
	ListByUser(ctx context.Context, userID int64) ([]models.Todo, error)
	// Create inserts a new item at the end of the user's list.
	Create(ctx context.Context, userID int64, f models.TodoFields) (*models.Todo, error)
	// Update overwrites the editable fields of the given item.
	Update(ctx context.Context, id, userID int64, f models.TodoFields) error
	// Delete removes the given item and re-packs the remaining positions.
	Delete(ctx context.Context, id, userID int64) error
	// SwapNeighbor swaps the item's position with the item at position+delta.
	SwapNeighbor(ctx context.Context, id, userID int64, delta int) error
}

// TodoService implements the to-do list operations on top of a TodoRepository.
type TodoService struct {
	repo TodoRepository
}

// NewTodoService constructs a TodoService with the provided TodoRepository.
func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

// List returns all items owned by userID in list order.
func (s *TodoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create adds a new item to the end of the user's list.
func (s *TodoService) Create(ctx context.Context, userID int64, f models.TodoFields) (*models.Todo, error) {
	return s.repo.Create(ctx, userID, f)
}

// Update overwrites the editable fields of the item. Returns NotFound when
// the item does not exist or belongs to another user.
func (s *TodoService) Update(ctx context.Context, id, userID int64, f models.TodoFields) error {
	return s.repo.Update(ctx, id, userID, f)
}

// Delete removes the item. Returns NotFound when the item does not exist or
// belongs to another user.
func (s *TodoService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// MoveUp swaps the item with its predecessor. Returns NoNeighbor when the
// item is already first.
func (s *TodoService) MoveUp(ctx context.Context, id, userID int64) error {
	return s.repo.SwapNeighbor(ctx, id, userID, -1)
}

// MoveDown swaps the item with its successor. Returns NoNeighbor when the
// item is already last.
func (s *TodoService) MoveDown(ctx context.Context, id, userID int64) error {
	return s.repo.SwapNeighbor(ctx, id, userID, 1)
}
