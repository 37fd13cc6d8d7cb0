package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoterm/internal/model"
)

// PermissionCreate is the request body for sharing a list. The grantee
// is identified by email or username, not by numeric id.
type PermissionCreate struct {
	UserIdentifier string                `json:"user_identifier"`
	Level          model.PermissionLevel `json:"permission_level"`
}

// PermissionUpdate changes the level of an existing grant.
type PermissionUpdate struct {
	Level model.PermissionLevel `json:"permission_level"`
}

// ShareList grants another user access to a list.
func (c *Client) ShareList(
	ctx context.Context,
	listID int64,
	data PermissionCreate,
) (*model.ListPermission, error) {
	var perm model.ListPermission
	path := fmt.Sprintf("/lists/%d/permissions", listID)
	if err := c.post(ctx, path, data, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// UpdatePermission changes the level of a grant on a list.
func (c *Client) UpdatePermission(
	ctx context.Context,
	listID, permissionID int64,
	data PermissionUpdate,
) (*model.ListPermission, error) {
	var perm model.ListPermission
	path := fmt.Sprintf("/lists/%d/permissions/%d", listID, permissionID)
	if err := c.put(ctx, path, data, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// RevokePermission removes a grant from a list.
func (c *Client) RevokePermission(ctx context.Context, listID, permissionID int64) error {
	return c.delete(ctx, fmt.Sprintf("/lists/%d/permissions/%d", listID, permissionID))
}

// ListPermissions fetches all grants on a list.
func (c *Client) ListPermissions(ctx context.Context, listID int64) ([]model.ListPermission, error) {
	var perms []model.ListPermission
	if err := c.get(ctx, fmt.Sprintf("/lists/%d/permissions", listID), &perms); err != nil {
		return nil, err
	}
	return perms, nil
}
