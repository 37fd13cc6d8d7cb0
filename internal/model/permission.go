package model

import "time"

// ListPermission is a grant of access to a list for another user.
type ListPermission struct {
	ID       int64           `json:"id"`
	ListID   int64           `json:"list_id"`
	UserID   int64           `json:"user_id"`
	Level    PermissionLevel `json:"permission_level"`
	SharedBy int64           `json:"shared_by"`
	SharedAt time.Time       `json:"shared_at"`

	// User is the grantee profile, embedded by the permissions endpoint.
	User *User `json:"user,omitempty"`
}
