package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoterm/internal/model"
)

// ActivityFeed is a bounded, most-recent-first window of activity.
type ActivityFeed struct {
	Total int              `json:"total"`
	Items []model.Activity `json:"items"`
}

// MyActivity fetches the current user's recent activity across lists.
func (c *Client) MyActivity(ctx context.Context) (*ActivityFeed, error) {
	var feed ActivityFeed
	path := fmt.Sprintf("/activity/?skip=0&limit=%d", activityLimit)
	if err := c.get(ctx, path, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// ListActivity fetches recent activity scoped to one list.
func (c *Client) ListActivity(ctx context.Context, listID int64) (*ActivityFeed, error) {
	var feed ActivityFeed
	path := fmt.Sprintf("/activity/list/%d?skip=0&limit=%d", listID, activityLimit)
	if err := c.get(ctx, path, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// AllActivity fetches recent activity across every list visible to
// the caller.
func (c *Client) AllActivity(ctx context.Context) (*ActivityFeed, error) {
	var feed ActivityFeed
	path := fmt.Sprintf("/activity/all?skip=0&limit=%d", activityLimit)
	if err := c.get(ctx, path, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
