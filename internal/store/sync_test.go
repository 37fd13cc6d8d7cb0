package store_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/store"
	"github.com/nhle/todoterm/tests/testutil"
)

// recordingNotifier captures toasts for assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	entries []string
}

func (n *recordingNotifier) record(level, message string) {
	n.mu.Lock()
	n.entries = append(n.entries, level+": "+message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Success(msg string) { n.record("success", msg) }
func (n *recordingNotifier) Error(msg string)   { n.record("error", msg) }
func (n *recordingNotifier) Info(msg string)    { n.record("info", msg) }
func (n *recordingNotifier) Warning(msg string) { n.record("warning", msg) }

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.entries))
	copy(out, n.entries)
	return out
}

func (n *recordingNotifier) count(level string) int {
	c := 0
	for _, e := range n.all() {
		if len(e) >= len(level) && e[:len(level)] == level {
			c++
		}
	}
	return c
}

func newTestStore(t *testing.T) (*store.Store, *testutil.Backend, *recordingNotifier) {
	t.Helper()
	backend := testutil.NewBackend(t)
	notifier := &recordingNotifier{}
	s := store.New(backend.Client(), notifier, nil)
	return s, backend, notifier
}

func TestFetchListsAutoSelectsFirst(t *testing.T) {
	s, backend, _ := newTestStore(t)
	first := backend.SeedList("Groceries")
	backend.SeedList("Work")

	s.FetchLists(context.Background())

	sel, ok := s.SelectedListID()
	if !ok {
		t.Fatal("expected a selection after FetchLists")
	}
	if sel != first.ID {
		t.Errorf("selected list = %d, want %d", sel, first.ID)
	}
	if got := backend.TodoFetches[first.ID]; got != 1 {
		t.Errorf("todo fetches for selected list = %d, want 1", got)
	}
	if len(s.Lists()) != 2 {
		t.Errorf("lists = %d, want 2", len(s.Lists()))
	}
}

func TestFetchListsKeepsExistingSelection(t *testing.T) {
	s, backend, _ := newTestStore(t)
	backend.SeedList("Groceries")
	second := backend.SeedList("Work")

	ctx := context.Background()
	s.SelectList(ctx, second.ID)
	s.FetchLists(ctx)

	sel, _ := s.SelectedListID()
	if sel != second.ID {
		t.Errorf("selected list = %d, want %d to survive refresh", sel, second.ID)
	}
}

func TestCreateListSelectsAndNotifies(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	backend.SeedList("Existing")
	ctx := context.Background()
	s.FetchLists(ctx)

	if err := s.CreateList(ctx, api.ListCreate{Name: "Fresh"}); err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	sel, _ := s.SelectedListID()
	selected, ok := s.SelectedList()
	if !ok || selected.Name != "Fresh" {
		t.Errorf("selected list = %+v (id %d), want the created list", selected, sel)
	}
	if got := notifier.count("success"); got != 1 {
		t.Errorf("success toasts = %d, want 1", got)
	}
	if len(s.Lists()) != 2 {
		t.Errorf("lists = %d, want 2", len(s.Lists()))
	}
}

func TestDeleteSelectedListReselectsFirstRemaining(t *testing.T) {
	s, backend, _ := newTestStore(t)
	first := backend.SeedList("A")
	second := backend.SeedList("B")
	backend.SeedTodo(second.ID, "keep me")

	ctx := context.Background()
	s.FetchLists(ctx)
	s.SelectList(ctx, first.ID)

	if err := s.DeleteList(ctx, first.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	sel, ok := s.SelectedListID()
	if !ok || sel != second.ID {
		t.Fatalf("selected = %d (ok=%v), want %d", sel, ok, second.ID)
	}
	todos := s.Todos()
	if len(todos) != 1 || todos[0].Name != "keep me" {
		t.Errorf("todos = %+v, want the remaining list's todos", todos)
	}
}

func TestDeleteLastListClearsSelection(t *testing.T) {
	s, backend, _ := newTestStore(t)
	only := backend.SeedList("Only")
	backend.SeedTodo(only.ID, "gone")

	ctx := context.Background()
	s.FetchLists(ctx)

	if err := s.DeleteList(ctx, only.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	if _, ok := s.SelectedListID(); ok {
		t.Error("expected no selection after deleting the last list")
	}
	if got := len(s.Todos()); got != 0 {
		t.Errorf("todos = %d, want 0", got)
	}
	if got := len(s.Lists()); got != 0 {
		t.Errorf("lists = %d, want 0", got)
	}
}

func TestDeleteUnselectedListKeepsSelection(t *testing.T) {
	s, backend, _ := newTestStore(t)
	first := backend.SeedList("A")
	second := backend.SeedList("B")

	ctx := context.Background()
	s.FetchLists(ctx)
	before := backend.TodoFetches[first.ID]

	if err := s.DeleteList(ctx, second.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	sel, _ := s.SelectedListID()
	if sel != first.ID {
		t.Errorf("selected = %d, want %d", sel, first.ID)
	}
	if backend.TodoFetches[first.ID] != before {
		t.Error("deleting an unselected list must not refetch todos")
	}
}

func TestCanEdit(t *testing.T) {
	s, backend, _ := newTestStore(t)
	owned := backend.SeedList("Mine")
	editable := backend.SeedSharedList("Theirs RW", model.PermissionUpdate)
	readonly := backend.SeedSharedList("Theirs RO", model.PermissionView)

	ctx := context.Background()

	if s.CanEdit() {
		t.Error("CanEdit with no selection = true, want false")
	}

	s.FetchLists(ctx)

	cases := []struct {
		name   string
		listID int64
		want   bool
	}{
		{"owned", owned.ID, true},
		{"shared update", editable.ID, true},
		{"shared view", readonly.ID, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s.SelectList(ctx, tc.listID)
			if got := s.CanEdit(); got != tc.want {
				t.Errorf("CanEdit = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCreateTodoWithoutSelection(t *testing.T) {
	s, backend, notifier := newTestStore(t)

	err := s.CreateTodo(context.Background(), api.TodoCreate{Name: "orphan", DueDate: "2026-02-01"})
	if err != nil {
		t.Fatalf("CreateTodo with no selection returned %v, want nil", err)
	}
	if got := s.Err(); got != "No list selected" {
		t.Errorf("Err = %q, want %q", got, "No list selected")
	}
	if got := notifier.count("error"); got != 1 {
		t.Errorf("error toasts = %d, want 1", got)
	}
	if backend.ListFetches != 0 {
		t.Error("CreateTodo without selection must not touch the network")
	}
}

func TestCreateTodoRefreshesLists(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	l := backend.SeedList("Inbox")
	ctx := context.Background()
	s.FetchLists(ctx)

	fetchesBefore := backend.ListFetches
	err := s.CreateTodo(ctx, api.TodoCreate{Name: "buy milk", DueDate: "2026-02-01"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	if backend.ListFetches <= fetchesBefore {
		t.Error("CreateTodo must refetch lists to refresh todo counts")
	}
	if got := notifier.count("success"); got != 1 {
		t.Errorf("success toasts = %d, want 1", got)
	}

	// Local snapshot matches the server after the mutation.
	server := backend.Todos(l.ID)
	local := s.Todos()
	if len(local) != len(server) {
		t.Fatalf("local todos = %d, server = %d", len(local), len(server))
	}
	if local[0].Name != "buy milk" {
		t.Errorf("todo name = %q, want %q", local[0].Name, "buy milk")
	}
}

func TestUpdateTodoDoesNotRefetchLists(t *testing.T) {
	s, backend, _ := newTestStore(t)
	l := backend.SeedList("Inbox")
	todo := backend.SeedTodo(l.ID, "old name")

	ctx := context.Background()
	s.FetchLists(ctx)

	fetchesBefore := backend.ListFetches
	name := "new name"
	if err := s.UpdateTodo(ctx, todo.ID, api.TodoUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}

	if backend.ListFetches != fetchesBefore {
		t.Error("UpdateTodo must not refetch lists")
	}
	local := s.Todos()
	if len(local) != 1 || local[0].Name != "new name" {
		t.Errorf("local snapshot = %+v, want the updated todo", local)
	}
}

func TestUpdateTodoWithoutSelectionIsNoOp(t *testing.T) {
	s, backend, notifier := newTestStore(t)

	name := "x"
	if err := s.UpdateTodo(context.Background(), 1, api.TodoUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateTodo with no selection returned %v, want nil", err)
	}
	if backend.ListFetches != 0 {
		t.Error("no network traffic expected")
	}
	if len(notifier.all()) != 0 {
		t.Errorf("toasts = %v, want none", notifier.all())
	}
}

func TestDeleteTodoRemovesAndRefreshes(t *testing.T) {
	s, backend, _ := newTestStore(t)
	l := backend.SeedList("Inbox")
	victim := backend.SeedTodo(l.ID, "victim")
	backend.SeedTodo(l.ID, "survivor")

	ctx := context.Background()
	s.FetchLists(ctx)

	if err := s.DeleteTodo(ctx, victim.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}

	local := s.Todos()
	if len(local) != 1 || local[0].Name != "survivor" {
		t.Errorf("local snapshot = %+v, want only the survivor", local)
	}
	if server := backend.Todos(l.ID); len(server) != 1 {
		t.Errorf("server todos = %d, want 1", len(server))
	}
}

func TestToggleTodoStatusCycles(t *testing.T) {
	s, backend, _ := newTestStore(t)
	l := backend.SeedList("Inbox")
	todo := backend.SeedTodo(l.ID, "cycle me")

	ctx := context.Background()
	s.FetchLists(ctx)

	want := []model.TodoStatus{
		model.StatusInProgress,
		model.StatusCompleted,
		model.StatusNotStarted,
	}
	for _, expected := range want {
		s.ToggleTodoStatus(ctx, todo.ID)

		local := s.Todos()
		if len(local) != 1 {
			t.Fatalf("todos = %d, want 1", len(local))
		}
		if local[0].Status != expected {
			t.Fatalf("status = %q, want %q", local[0].Status, expected)
		}
		if server := backend.Todos(l.ID); server[0].Status != expected {
			t.Fatalf("server status = %q, want %q", server[0].Status, expected)
		}
	}
}

func TestToggleUnknownTodoIsNoOp(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	backend.SeedList("Inbox")
	ctx := context.Background()
	s.FetchLists(ctx)

	s.ToggleTodoStatus(ctx, 999)

	if got := s.Err(); got != "" {
		t.Errorf("Err = %q, want empty", got)
	}
	if got := notifier.count("error"); got != 0 {
		t.Errorf("error toasts = %d, want 0", got)
	}
}

func TestMutationFailureRecordsDetail(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	l := backend.SeedList("Inbox")
	todo := backend.SeedTodo(l.ID, "locked")

	ctx := context.Background()
	s.FetchLists(ctx)

	backend.FailNext(http.StatusForbidden, "Not enough permissions")
	name := "nope"
	err := s.UpdateTodo(ctx, todo.ID, api.TodoUpdate{Name: &name})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := s.Err(); got != "Not enough permissions" {
		t.Errorf("Err = %q, want server detail", got)
	}
	if got := notifier.count("error"); got != 1 {
		t.Errorf("error toasts = %d, want 1", got)
	}

	// Local snapshot untouched by the failed update.
	if local := s.Todos(); local[0].Name != "locked" {
		t.Errorf("local name = %q, want unchanged", local[0].Name)
	}
}

func TestClearErr(t *testing.T) {
	s, backend, _ := newTestStore(t)
	backend.FailNext(http.StatusInternalServerError, "boom")

	s.FetchLists(context.Background())
	if s.Err() == "" {
		t.Fatal("expected recorded error")
	}

	s.ClearErr()
	if got := s.Err(); got != "" {
		t.Errorf("Err after ClearErr = %q, want empty", got)
	}
}

func TestFetchTagsFailureDoesNotSetErr(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	backend.SeedTag("home")
	backend.FailNext(http.StatusInternalServerError, "tag store down")

	s.FetchTags(context.Background())

	if got := s.Err(); got != "" {
		t.Errorf("Err = %q, tags are non-critical and must not set it", got)
	}
	if got := notifier.count("error"); got != 1 {
		t.Errorf("error toasts = %d, want 1", got)
	}

	// A later fetch succeeds and fills the snapshot.
	s.FetchTags(context.Background())
	if got := len(s.Tags()); got != 1 {
		t.Errorf("tags = %d, want 1", got)
	}
}

func TestShareListRecordsActivity(t *testing.T) {
	s, backend, notifier := newTestStore(t)
	l := backend.SeedList("Shared soon")

	ctx := context.Background()
	s.FetchLists(ctx)

	err := s.ShareList(ctx, l.ID, api.PermissionCreate{
		UserIdentifier: "friend@example.com",
		Level:          model.PermissionUpdate,
	})
	if err != nil {
		t.Fatalf("ShareList: %v", err)
	}
	if got := notifier.count("success"); got != 1 {
		t.Errorf("success toasts = %d, want 1", got)
	}

	acts := s.Activities()
	if len(acts) == 0 || acts[0].Action != model.ActionShared {
		t.Errorf("activities = %+v, want a shared entry first", acts)
	}
}

func TestShareListUnknownUser(t *testing.T) {
	s, backend, _ := newTestStore(t)
	l := backend.SeedList("Inbox")
	ctx := context.Background()
	s.FetchLists(ctx)

	err := s.ShareList(ctx, l.ID, api.PermissionCreate{
		UserIdentifier: "nobody",
		Level:          model.PermissionView,
	})
	if err == nil {
		t.Fatal("expected an error for an unknown grantee")
	}
	if got := s.Err(); got != "User not found" {
		t.Errorf("Err = %q, want server detail", got)
	}
}

func TestFetchActivitiesScopesByList(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateList(ctx, api.ListCreate{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateList(ctx, api.ListCreate{Name: "B"}); err != nil {
		t.Fatal(err)
	}

	lists := s.Lists()
	if len(lists) != 2 {
		t.Fatalf("lists = %d, want 2", len(lists))
	}

	s.FetchActivities(ctx, lists[0].ID)
	for _, a := range s.Activities() {
		if a.ListID == nil || *a.ListID != lists[0].ID {
			t.Errorf("activity %d not scoped to list %d", a.ID, lists[0].ID)
		}
	}

	// Non-positive id falls back to the user feed.
	s.FetchActivities(ctx, 0)
	if got := len(s.Activities()); got != 2 {
		t.Errorf("user feed entries = %d, want 2", got)
	}
}
