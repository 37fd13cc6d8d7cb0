package store

import (
	"sort"
	"strings"

	"github.com/nhle/todoterm/internal/model"
)

// SortField names a todo attribute the view can be ordered by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByDueDate   SortField = "due_date"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "created_at"
	SortByPriority  SortField = "priority"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TodoFilter narrows the rendered todo view. Zero values match
// everything; filtering is purely client-side.
type TodoFilter struct {
	Status     *model.TodoStatus
	Priority   *model.TodoPriority
	SearchTerm string
}

// TodoSort orders the rendered todo view.
type TodoSort struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is newest-first by creation time.
func DefaultSort() TodoSort {
	return TodoSort{Field: SortByCreatedAt, Order: SortDesc}
}

// SetFilter replaces the current todo filter.
func (s *Store) SetFilter(f TodoFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Filter returns the current todo filter.
func (s *Store) Filter() TodoFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetSort replaces the current todo sort.
func (s *Store) SetSort(ts TodoSort) {
	s.mu.Lock()
	s.sort = ts
	s.mu.Unlock()
}

// Sort returns the current todo sort.
func (s *Store) Sort() TodoSort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// FilteredTodos returns the todo snapshot with the current filter and
// sort applied. The snapshot itself is untouched.
func (s *Store) FilteredTodos() []model.Todo {
	s.mu.Lock()
	filter := s.filter
	order := s.sort
	todos := make([]model.Todo, len(s.todos))
	copy(todos, s.todos)
	s.mu.Unlock()

	filtered := todos[:0]
	for _, t := range todos {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if !matchesSearch(t, filter.SearchTerm) {
			continue
		}
		filtered = append(filtered, t)
	}

	sortTodos(filtered, order)
	return filtered
}

// matchesSearch reports whether the search term appears in the todo's
// name or description, case-insensitively.
func matchesSearch(t model.Todo, term string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), term) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term) {
		return true
	}
	return false
}

// priorityRank orders priorities from most to least urgent.
var priorityRank = map[model.TodoPriority]int{
	model.PriorityHighest: 0,
	model.PriorityHigh:    1,
	model.PriorityMedium:  2,
	model.PriorityLow:     3,
	model.PriorityLowest:  4,
}

// statusRank orders statuses by workflow position.
var statusRank = map[model.TodoStatus]int{
	model.StatusNotStarted: 0,
	model.StatusInProgress: 1,
	model.StatusCompleted:  2,
}

func sortTodos(todos []model.Todo, order TodoSort) {
	less := func(a, b model.Todo) bool {
		switch order.Field {
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByDueDate:
			return a.DueDate < b.DueDate
		case SortByStatus:
			return statusRank[a.Status] < statusRank[b.Status]
		case SortByPriority:
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(todos, func(i, j int) bool {
		if order.Order == SortDesc {
			return less(todos[j], todos[i])
		}
		return less(todos[i], todos[j])
	})
}
