package model

import "time"

// ActionType describes what a recorded activity did.
type ActionType string

const (
	ActionCreated       ActionType = "created"
	ActionUpdated       ActionType = "updated"
	ActionStatusChanged ActionType = "status_changed"
	ActionDeleted       ActionType = "deleted"
	ActionShared        ActionType = "shared"
)

// EntityType names the kind of entity an activity touched.
type EntityType string

const (
	EntityTodoList   EntityType = "todo_list"
	EntityTodo       EntityType = "todo"
	EntityPermission EntityType = "permission"
)

// Activity is one append-only feed entry recording a mutation.
// The client only ever reads a bounded most-recent-first window.
type Activity struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	ListID    *int64         `json:"list_id"`
	TodoID    *int64         `json:"todo_id"`
	Action    ActionType     `json:"action_type"`
	Entity    EntityType     `json:"entity_type"`
	EntityID  *int64         `json:"entity_id"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`

	// User is the actor profile, embedded by the feed endpoints.
	User *User `json:"user,omitempty"`
}
