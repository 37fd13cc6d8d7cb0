package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoterm/internal/model"
)

// TagCreate is the request body for creating a tag.
type TagCreate struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TagUpdate is the partial-update body for a tag.
type TagUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Tags fetches the caller's tags.
func (c *Client) Tags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	path := fmt.Sprintf("/tags/?skip=0&limit=%d", pageLimit)
	if err := c.get(ctx, path, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, data TagCreate) (*model.Tag, error) {
	var created model.Tag
	if err := c.post(ctx, "/tags/", data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTag applies a partial update to a tag.
func (c *Client) UpdateTag(ctx context.Context, tagID int64, data TagUpdate) (*model.Tag, error) {
	var updated model.Tag
	if err := c.put(ctx, fmt.Sprintf("/tags/%d", tagID), data, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTag removes a tag everywhere it is used.
func (c *Client) DeleteTag(ctx context.Context, tagID int64) error {
	return c.delete(ctx, fmt.Sprintf("/tags/%d", tagID))
}
