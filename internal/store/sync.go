// Package store holds the authoritative client-side snapshot of
// lists, the selected list's todos, tags, and recent activity, and
// implements every state-mutating operation against the backend.
package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/logging"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/notify"
)

// API is the slice of the api client the store calls. *api.Client
// satisfies it; tests may substitute their own.
type API interface {
	Lists(ctx context.Context) ([]model.List, error)
	CreateList(ctx context.Context, data api.ListCreate) (*model.List, error)
	UpdateList(ctx context.Context, listID int64, data api.ListUpdate) (*model.List, error)
	DeleteList(ctx context.Context, listID int64) error
	ShareList(ctx context.Context, listID int64, data api.PermissionCreate) (*model.ListPermission, error)

	Todos(ctx context.Context, listID int64) ([]model.Todo, error)
	CreateTodo(ctx context.Context, listID int64, data api.TodoCreate) (*model.Todo, error)
	UpdateTodo(ctx context.Context, listID, todoID int64, data api.TodoUpdate) (*model.Todo, error)
	DeleteTodo(ctx context.Context, listID, todoID int64) error

	Tags(ctx context.Context) ([]model.Tag, error)

	MyActivity(ctx context.Context) (*api.ActivityFeed, error)
	ListActivity(ctx context.Context, listID int64) (*api.ActivityFeed, error)
}

// Store is the synchronization store. Construct one per session and
// inject it into the presentation layer; it owns the snapshot and is
// the only thing that mutates it.
//
// Loading and error state is shared across all operations, as in the
// original design: two interleaved operations stomp each other's
// flags. Callers treat Loading and Err as best-effort UI hints, not
// per-operation results.
type Store struct {
	client   API
	notifier notify.Notifier
	logger   *log.Logger

	mu             sync.Mutex
	lists          []model.List
	selectedListID *int64
	todos          []model.Todo
	tags           []model.Tag
	activities     []model.Activity
	filter         TodoFilter
	sort           TodoSort
	loading        bool
	lastError      string
}

// New creates a store bound to a backend client and a notifier.
// logger may be nil.
func New(client API, notifier notify.Notifier, logger *log.Logger) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		client:   client,
		notifier: notifier,
		logger:   logger,
		sort:     DefaultSort(),
	}
}

// begin marks an operation as in flight and clears the error field.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

// fail records a failed operation and fires an error toast.
func (s *Store) fail(err error) {
	s.mu.Lock()
	s.loading = false
	s.lastError = err.Error()
	s.mu.Unlock()
	s.notifier.Error(err.Error())
}

// FetchLists replaces the list collection with the server's current
// set. If nothing is selected and lists exist, the first list is
// selected and its todos fetched as a side effect. Failures are
// recorded and notified but not returned; there is no caller-side
// recovery for a background refresh.
func (s *Store) FetchLists(ctx context.Context) {
	s.begin()

	lists, err := s.client.Lists(ctx)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	s.lists = lists
	s.loading = false
	autoSelect := s.selectedListID == nil && len(lists) > 0
	var first int64
	if autoSelect {
		first = lists[0].ID
	}
	s.mu.Unlock()

	if autoSelect {
		s.SelectList(ctx, first)
	}
}

// SelectList makes listID the selected list and fetches its todos.
// The id is not checked against the cached lists; the todos fetch
// will surface an error for a bogus id. This is the sole entry point
// that changes which list's todos are in view.
func (s *Store) SelectList(ctx context.Context, listID int64) {
	s.mu.Lock()
	id := listID
	s.selectedListID = &id
	s.mu.Unlock()

	s.FetchTodos(ctx, listID)
}

// CreateList creates a list, appends it to the snapshot, selects it,
// and refreshes its activity window. The error is returned so form
// callers can react.
func (s *Store) CreateList(ctx context.Context, data api.ListCreate) error {
	s.begin()

	created, err := s.client.CreateList(ctx, data)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.lists = append(s.lists, *created)
	s.loading = false
	s.mu.Unlock()

	s.SelectList(ctx, created.ID)
	s.refreshActivities(ctx, created.ID)
	s.notifier.Success("List created successfully")
	return nil
}

// UpdateList applies a partial update and replaces the matching list
// in the snapshot.
func (s *Store) UpdateList(ctx context.Context, listID int64, data api.ListUpdate) error {
	s.begin()

	updated, err := s.client.UpdateList(ctx, listID, data)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.lists {
		if s.lists[i].ID == listID {
			s.lists[i] = *updated
		}
	}
	s.loading = false
	s.mu.Unlock()

	s.refreshActivities(ctx, listID)
	s.notifier.Success("List updated successfully")
	return nil
}

// DeleteList removes a list. If it was selected, the first remaining
// list (if any) becomes selected and its todos are fetched; with no
// lists left the selection clears and the todo snapshot empties.
func (s *Store) DeleteList(ctx context.Context, listID int64) error {
	s.begin()

	if err := s.client.DeleteList(ctx, listID); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	wasSelected := s.selectedListID != nil && *s.selectedListID == listID

	remaining := s.lists[:0:0]
	for _, l := range s.lists {
		if l.ID != listID {
			remaining = append(remaining, l)
		}
	}
	s.lists = remaining

	var next *int64
	if wasSelected {
		s.todos = nil
		if len(s.lists) > 0 {
			id := s.lists[0].ID
			next = &id
		}
		s.selectedListID = next
	}
	s.loading = false
	s.mu.Unlock()

	if wasSelected && next != nil {
		s.FetchTodos(ctx, *next)
		s.refreshActivities(ctx, *next)
	}

	s.notifier.Success("List deleted successfully")
	return nil
}

// ShareList grants another user access to a list. The cached List
// entity is not touched; the permission relation lives server-side.
func (s *Store) ShareList(ctx context.Context, listID int64, data api.PermissionCreate) error {
	s.begin()

	if _, err := s.client.ShareList(ctx, listID, data); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	s.refreshActivities(ctx, listID)
	s.notifier.Success("List shared successfully")
	return nil
}

// FetchTodos replaces the todo snapshot with the server's current set
// for listID. Invoked after every selection change. Failures leave
// the prior snapshot in place; they are recorded and notified but
// not returned.
func (s *Store) FetchTodos(ctx context.Context, listID int64) {
	s.begin()

	todos, err := s.client.Todos(ctx, listID)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	s.todos = todos
	s.loading = false
	s.mu.Unlock()
}

// CreateTodo adds a todo to the selected list. With no selection it
// records an error and returns without touching the network. On
// success the lists are re-fetched to keep todo counts accurate.
func (s *Store) CreateTodo(ctx context.Context, data api.TodoCreate) error {
	sel, ok := s.SelectedListID()
	if !ok {
		const msg = "No list selected"
		s.mu.Lock()
		s.lastError = msg
		s.mu.Unlock()
		s.notifier.Error(msg)
		return nil
	}

	s.begin()

	created, err := s.client.CreateTodo(ctx, sel, data)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.todos = append(s.todos, *created)
	s.loading = false
	s.mu.Unlock()

	s.FetchLists(ctx)
	s.refreshActivities(ctx, sel)
	s.notifier.Success("Todo created successfully")
	return nil
}

// UpdateTodo applies a partial update to a todo in the selected list.
// A missing selection is a silent no-op. Lists are not re-fetched;
// an update cannot change todo counts.
func (s *Store) UpdateTodo(ctx context.Context, todoID int64, data api.TodoUpdate) error {
	sel, ok := s.SelectedListID()
	if !ok {
		return nil
	}

	s.begin()

	updated, err := s.client.UpdateTodo(ctx, sel, todoID, data)
	if err != nil {
		s.fail(err)
		return err
	}

	s.replaceTodo(*updated)

	s.refreshActivities(ctx, sel)
	s.notifier.Success("Todo updated successfully")
	return nil
}

// DeleteTodo removes a todo from the selected list. A missing
// selection is a silent no-op.
func (s *Store) DeleteTodo(ctx context.Context, todoID int64) error {
	sel, ok := s.SelectedListID()
	if !ok {
		return nil
	}

	s.begin()

	if err := s.client.DeleteTodo(ctx, sel, todoID); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	kept := s.todos[:0:0]
	for _, t := range s.todos {
		if t.ID != todoID {
			kept = append(kept, t)
		}
	}
	s.todos = kept
	s.loading = false
	s.mu.Unlock()

	s.FetchLists(ctx)
	s.refreshActivities(ctx, sel)
	s.notifier.Success("Todo deleted successfully")
	return nil
}

// ToggleTodoStatus advances a todo through the status cycle with a
// status-only update. The current status is read from the snapshot,
// not re-fetched. Failures are recorded in the shared error field
// but not returned; callers cannot distinguish a toggle failure
// except through Err.
func (s *Store) ToggleTodoStatus(ctx context.Context, todoID int64) {
	sel, ok := s.SelectedListID()
	if !ok {
		return
	}

	s.mu.Lock()
	var current *model.Todo
	for i := range s.todos {
		if s.todos[i].ID == todoID {
			t := s.todos[i]
			current = &t
			break
		}
	}
	s.mu.Unlock()
	if current == nil {
		return
	}

	next := current.Status.Next()

	s.begin()

	updated, err := s.client.UpdateTodo(ctx, sel, todoID, api.TodoUpdate{Status: &next})
	if err != nil {
		s.fail(err)
		return
	}

	s.replaceTodo(*updated)

	s.refreshActivities(ctx, sel)
}

// FetchTags replaces the tag snapshot. Tags are non-critical: a
// failure is notified and logged but never stored in the shared
// error field.
func (s *Store) FetchTags(ctx context.Context) {
	tags, err := s.client.Tags(ctx)
	if err != nil {
		s.logger.Warn("fetching tags", "err", err)
		s.notifier.Error("Failed to fetch tags")
		return
	}

	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
}

// FetchActivities replaces the activity window. A positive listID
// scopes the window to that list; otherwise the current user's feed
// is fetched. Activity is best-effort telemetry: failures are only
// logged.
func (s *Store) FetchActivities(ctx context.Context, listID int64) {
	var (
		feed *api.ActivityFeed
		err  error
	)
	if listID > 0 {
		feed, err = s.client.ListActivity(ctx, listID)
	} else {
		feed, err = s.client.MyActivity(ctx)
	}
	if err != nil {
		s.logger.Debug("fetching activities", "list_id", listID, "err", err)
		return
	}

	s.mu.Lock()
	s.activities = feed.Items
	s.mu.Unlock()
}

// refreshActivities is the best-effort refresh triggered after each
// successful mutation.
func (s *Store) refreshActivities(ctx context.Context, listID int64) {
	s.FetchActivities(ctx, listID)
}

// replaceTodo swaps the snapshot entry matching the todo's id and
// clears the loading flag.
func (s *Store) replaceTodo(updated model.Todo) {
	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == updated.ID {
			s.todos[i] = updated
		}
	}
	s.loading = false
	s.mu.Unlock()
}

// Lists returns a copy of the cached list collection.
func (s *Store) Lists() []model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.List, len(s.lists))
	copy(out, s.lists)
	return out
}

// Todos returns a copy of the selected list's todo snapshot.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Tags returns a copy of the tag snapshot.
func (s *Store) Tags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Activities returns a copy of the activity window, newest first.
func (s *Store) Activities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// SelectedListID returns the selected list id, if any.
func (s *Store) SelectedListID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedListID == nil {
		return 0, false
	}
	return *s.selectedListID, true
}

// SelectedList looks the selected id up in the cached lists.
func (s *Store) SelectedList() (model.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedListID == nil {
		return model.List{}, false
	}
	for _, l := range s.lists {
		if l.ID == *s.selectedListID {
			return l, true
		}
	}
	return model.List{}, false
}

// CanEdit reports whether the selected list may be modified: true for
// owners and "update" grantees, false for "view" grantees and when
// nothing is selected.
func (s *Store) CanEdit() bool {
	selected, ok := s.SelectedList()
	if !ok {
		return false
	}
	return selected.Editable()
}

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message recorded by the most recent failed
// operation, or "" when the last operation succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearErr resets the shared error field.
func (s *Store) ClearErr() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}
