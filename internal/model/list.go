package model

import "time"

// PermissionLevel is the access level granted on a shared list.
type PermissionLevel string

const (
	PermissionView   PermissionLevel = "view"
	PermissionUpdate PermissionLevel = "update"
)

// List is a todo list owned by a user, possibly shared with others.
type List struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Color       string     `json:"color"`
	OwnerID     int64      `json:"owner_id"`
	Archived    bool       `json:"is_archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`

	// TodoCount is populated by the list collection endpoint.
	TodoCount *int `json:"todo_count,omitempty"`

	// PermissionLevel is set only on lists shared with the current
	// user. It is absent on lists the user owns.
	PermissionLevel *PermissionLevel `json:"permission_level,omitempty"`
}

// Editable reports whether the current user may modify the list's
// contents: owners (no permission level) and "update" grantees can,
// "view" grantees cannot.
func (l List) Editable() bool {
	return l.PermissionLevel == nil || *l.PermissionLevel == PermissionUpdate
}

// ListDetail is the single-list endpoint payload with embedded
// todos and permission grants.
type ListDetail struct {
	List
	Todos      []Todo           `json:"todos"`
	SharedWith []ListPermission `json:"shared_with"`
}
