package model

import "time"

// TodoStatus is the workflow state of a todo item.
type TodoStatus string

const (
	StatusNotStarted TodoStatus = "Not Started"
	StatusInProgress TodoStatus = "In Progress"
	StatusCompleted  TodoStatus = "Completed"
)

// Next returns the status that follows in the fixed cycle
// Not Started → In Progress → Completed → Not Started.
func (s TodoStatus) Next() TodoStatus {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// TodoPriority is the urgency level of a todo item.
type TodoPriority string

const (
	PriorityHighest TodoPriority = "Highest"
	PriorityHigh    TodoPriority = "High"
	PriorityMedium  TodoPriority = "Medium"
	PriorityLow     TodoPriority = "Low"
	PriorityLowest  TodoPriority = "Lowest"
)

// Todo is a single item belonging to exactly one list.
type Todo struct {
	ID          int64        `json:"id"`
	ListID      int64        `json:"list_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	DueDate     string       `json:"due_date"` // ISO date, YYYY-MM-DD
	Status      TodoStatus   `json:"status"`
	Priority    TodoPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at"`
	Tags        []Tag        `json:"tags"`
}
