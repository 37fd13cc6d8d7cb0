package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoterm/internal/model"
)

// ListCreate is the request body for creating a list.
type ListCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// ListUpdate is the partial-update body for a list. Nil fields are
// left unchanged by the server.
type ListUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Archived    *bool   `json:"is_archived,omitempty"`
}

// Lists fetches all lists visible to the caller, owned and shared.
func (c *Client) Lists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	path := fmt.Sprintf("/lists/?skip=0&limit=%d", pageLimit)
	if err := c.get(ctx, path, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// List fetches a single list with its embedded todos and permissions.
func (c *Client) List(ctx context.Context, listID int64) (*model.ListDetail, error) {
	var detail model.ListDetail
	if err := c.get(ctx, fmt.Sprintf("/lists/%d", listID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateList creates a new list owned by the caller.
func (c *Client) CreateList(ctx context.Context, data ListCreate) (*model.List, error) {
	var created model.List
	if err := c.post(ctx, "/lists/", data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateList applies a partial update to a list.
func (c *Client) UpdateList(ctx context.Context, listID int64, data ListUpdate) (*model.List, error) {
	var updated model.List
	if err := c.put(ctx, fmt.Sprintf("/lists/%d", listID), data, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteList removes a list and everything in it.
func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	return c.delete(ctx, fmt.Sprintf("/lists/%d", listID))
}
