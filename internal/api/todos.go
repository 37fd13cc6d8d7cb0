package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoterm/internal/model"
)

// TodoCreate is the request body for creating a todo. Name and DueDate
// are required by the backend; the rest default server-side.
type TodoCreate struct {
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	DueDate     string             `json:"due_date"`
	Status      model.TodoStatus   `json:"status,omitempty"`
	Priority    model.TodoPriority `json:"priority,omitempty"`
	TagIDs      []int64            `json:"tag_ids,omitempty"`
}

// TodoUpdate is the partial-update body for a todo. Nil fields are
// left unchanged by the server.
type TodoUpdate struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	DueDate     *string             `json:"due_date,omitempty"`
	Status      *model.TodoStatus   `json:"status,omitempty"`
	Priority    *model.TodoPriority `json:"priority,omitempty"`
	TagIDs      []int64             `json:"tag_ids,omitempty"`
}

// Todos fetches the current set of todos in a list.
func (c *Client) Todos(ctx context.Context, listID int64) ([]model.Todo, error) {
	var todos []model.Todo
	path := fmt.Sprintf("/lists/%d/todos?skip=0&limit=%d", listID, pageLimit)
	if err := c.get(ctx, path, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Todo fetches a single todo.
func (c *Client) Todo(ctx context.Context, listID, todoID int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.get(ctx, fmt.Sprintf("/lists/%d/todos/%d", listID, todoID), &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateTodo adds a todo to a list.
func (c *Client) CreateTodo(ctx context.Context, listID int64, data TodoCreate) (*model.Todo, error) {
	var created model.Todo
	if err := c.post(ctx, fmt.Sprintf("/lists/%d/todos", listID), data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTodo applies a partial update to a todo.
func (c *Client) UpdateTodo(
	ctx context.Context,
	listID, todoID int64,
	data TodoUpdate,
) (*model.Todo, error) {
	var updated model.Todo
	path := fmt.Sprintf("/lists/%d/todos/%d", listID, todoID)
	if err := c.put(ctx, path, data, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTodo removes a todo from its list.
func (c *Client) DeleteTodo(ctx context.Context, listID, todoID int64) error {
	return c.delete(ctx, fmt.Sprintf("/lists/%d/todos/%d", listID, todoID))
}
