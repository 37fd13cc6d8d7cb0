package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/store"
)

// remoteChangedMsg tells the UI loop that a relay event updated the
// snapshot.
type remoteChangedMsg struct{}

// Refresher implements realtime.Handler by re-fetching through the
// synchronization store and signalling the UI loop.
type Refresher struct {
	store  *store.Store
	signal chan struct{}
}

// NewRefresher creates a Refresher around the store.
func NewRefresher(s *store.Store) *Refresher {
	return &Refresher{
		store:  s,
		signal: make(chan struct{}, 1),
	}
}

// Signal returns the channel the UI loop waits on.
func (r *Refresher) Signal() <-chan struct{} {
	return r.signal
}

// TodosChanged re-fetches lists and, when the event concerns the
// selected list or carries no list id, the selected list's todos.
func (r *Refresher) TodosChanged(ctx context.Context, listID *int64) {
	r.store.FetchLists(ctx)

	if sel, ok := r.store.SelectedListID(); ok {
		if listID == nil || *listID == sel {
			r.store.FetchTodos(ctx, sel)
		}
	}
	r.ping()
}

// ActivityPosted refreshes the activity window.
func (r *Refresher) ActivityPosted(ctx context.Context, listID *int64) {
	var id int64
	if listID != nil {
		id = *listID
	}
	r.store.FetchActivities(ctx, id)
	r.ping()
}

// ping signals the UI loop without blocking; a pending signal already
// covers this change.
func (r *Refresher) ping() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// waitForRefresh blocks until the next relay-driven snapshot change.
func (m Model) waitForRefresh() tea.Cmd {
	ch := m.refresh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return remoteChangedMsg{}
	}
}
