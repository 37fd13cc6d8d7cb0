package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/ui/listpicker"
	"github.com/nhle/todoterm/internal/ui/todolist"
)

// snapshotChangedMsg is sent after any store operation so every view
// re-renders from the fresh snapshot.
type snapshotChangedMsg struct{}

func changed() tea.Msg { return snapshotChangedMsg{} }

// loadSnapshot fetches lists, tags, and the activity window. The lists
// fetch auto-selects the first list and pulls its todos.
func (m Model) loadSnapshot() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		s.FetchLists(ctx)
		s.FetchTags(ctx)
		sel, _ := s.SelectedListID()
		s.FetchActivities(ctx, sel)
		return changed()
	}
}

// loadActivity refreshes the activity window for the selection.
func (m Model) loadActivity() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		sel, _ := s.SelectedListID()
		s.FetchActivities(context.Background(), sel)
		return changed()
	}
}

func (m Model) selectList(listID int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.SelectList(context.Background(), listID)
		return changed()
	}
}

func (m Model) createTodo(data api.TodoCreate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.CreateTodo(context.Background(), data)
		return changed()
	}
}

func (m Model) updateTodo(todoID int64, data api.TodoUpdate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.UpdateTodo(context.Background(), todoID, data)
		return changed()
	}
}

func (m Model) deleteTodo(todoID int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.DeleteTodo(context.Background(), todoID)
		return changed()
	}
}

func (m Model) toggleTodo(todoID int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.ToggleTodoStatus(context.Background(), todoID)
		return changed()
	}
}

func (m Model) createList(data api.ListCreate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.CreateList(context.Background(), data)
		return changed()
	}
}

func (m Model) updateList(listID int64, data api.ListUpdate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.UpdateList(context.Background(), listID, data)
		return changed()
	}
}

func (m Model) deleteList(listID int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.DeleteList(context.Background(), listID)
		return changed()
	}
}

func (m Model) shareList(listID int64, data api.PermissionCreate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.ShareList(context.Background(), listID, data)
		return changed()
	}
}

// reloadViews pushes the current snapshot into every snapshot-backed
// view.
func (m Model) reloadViews() (Model, tea.Cmd) {
	var cmd1, cmd2 tea.Cmd
	m.todoList, cmd1 = m.todoList.Update(todolist.TodosReloadedMsg{})
	m.listPicker, cmd2 = m.listPicker.Update(listpicker.ListsReloadedMsg{})
	m.activity.Reload()
	return m, tea.Batch(cmd1, cmd2)
}
