// Package app is the root Bubble Tea model. It routes between views,
// translates key presses into store operations, and surfaces toasts
// and realtime refreshes from their channels.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/keys"
	"github.com/nhle/todoterm/internal/notify"
	"github.com/nhle/todoterm/internal/session"
	"github.com/nhle/todoterm/internal/store"
	"github.com/nhle/todoterm/internal/ui"
	activityview "github.com/nhle/todoterm/internal/ui/activity"
	"github.com/nhle/todoterm/internal/ui/listform"
	"github.com/nhle/todoterm/internal/ui/listpicker"
	"github.com/nhle/todoterm/internal/ui/shareform"
	"github.com/nhle/todoterm/internal/ui/todoform"
	"github.com/nhle/todoterm/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTodos ViewState = iota
	ViewLists
	ViewActivity
	ViewTodoForm
	ViewListForm
	ViewShareForm
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the synchronization store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.Store
	session      *session.Manager
	keys         *keys.KeyMap
	feed         *notify.Feed
	refresh      <-chan struct{}

	todoList   todolist.Model
	listPicker listpicker.Model
	activity   activityview.Model
	todoForm   todoform.Model
	listForm   listform.Model
	shareForm  shareform.Model

	toast    *notify.Toast
	toastSeq int
	ready    bool
}

// New creates the root application model. refresh may be nil when the
// realtime relay is disabled.
func New(s *store.Store, sess *session.Manager, feed *notify.Feed, refresh <-chan struct{}) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewTodos,
		store:       s,
		session:     sess,
		keys:        k,
		feed:        feed,
		refresh:     refresh,
		todoList:    todolist.New(s, k, 80, 24),
		listPicker:  listpicker.New(s, k, 80, 24),
		activity:    activityview.New(s, k, 80, 24),
		todoForm:    todoform.New(80, 24),
		listForm:    listform.New(80, 24),
		shareForm:   shareform.New(80, 24),
	}
}

// Init triggers the initial snapshot load and starts draining the
// toast and refresh channels.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSnapshot(), m.waitForToast()}
	if m.refresh != nil {
		cmds = append(cmds, m.waitForRefresh())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.todoList.SetSize(w, h)
		m.listPicker.SetSize(w, h)
		m.activity.SetSize(w, h)
		m.todoForm.SetSize(w, h)
		m.listForm.SetSize(w, h)
		m.shareForm.SetSize(w, h)
		return m.updateActiveView(msg)

	case snapshotChangedMsg:
		mdl, cmd := m.reloadViews()
		return mdl, cmd

	case toastMsg:
		toast := msg.toast
		m.toast = &toast
		m.toastSeq++
		return m, tea.Batch(m.waitForToast(), m.expireToast(m.toastSeq))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case remoteChangedMsg:
		mdl, cmd := m.reloadViews()
		return mdl, tea.Batch(cmd, mdl.waitForRefresh())

	case todolist.ToggleRequestMsg:
		return m, m.toggleTodo(msg.TodoID)

	case todolist.EditRequestMsg:
		if !m.store.CanEdit() {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewTodoForm
		m.todoForm.SetTags(m.store.Tags())
		cmd := m.todoForm.StartEdit(msg.Todo)
		return m, cmd

	case todolist.DeleteRequestMsg:
		return m, m.deleteTodo(msg.TodoID)

	case listpicker.PickedMsg:
		m.currentView = ViewTodos
		return m, m.selectList(msg.ListID)

	case listpicker.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewListForm
		cmd := m.listForm.StartEdit(msg.List)
		return m, cmd

	case listpicker.DeleteRequestMsg:
		return m, m.deleteList(msg.ListID)

	case listpicker.ShareRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewShareForm
		cmd := m.shareForm.Start(msg.List)
		return m, cmd

	case todoform.CreateMsg:
		m.currentView = m.previousView
		return m, m.createTodo(msg.Data)

	case todoform.UpdateMsg:
		m.currentView = m.previousView
		return m, m.updateTodo(msg.TodoID, msg.Data)

	case todoform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case listform.CreateMsg:
		m.currentView = ViewTodos
		return m, m.createList(msg.Data)

	case listform.UpdateMsg:
		m.currentView = m.previousView
		return m, m.updateList(msg.ListID, msg.Data)

	case listform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case shareform.SubmitMsg:
		m.currentView = m.previousView
		return m, m.shareList(msg.ListID, msg.Data)

	case shareform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys handles keys that switch views or quit. Form views
// keep full keyboard focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	switch m.currentView {
	case ViewTodoForm, ViewListForm, ViewShareForm:
		return false, m, nil
	}

	if m.todoList.Searching() && m.currentView == ViewTodos {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.currentView != ViewTodos {
			m.currentView = ViewTodos
			return true, m, nil
		}
		return false, m, nil

	case key.Matches(msg, m.keys.Lists):
		m.previousView = m.currentView
		m.currentView = ViewLists
		cmd := m.listPicker.Reload()
		return true, m, cmd

	case key.Matches(msg, m.keys.Activity):
		m.previousView = m.currentView
		m.currentView = ViewActivity
		return true, m, m.loadActivity()

	case key.Matches(msg, m.keys.Refresh):
		return true, m, m.loadSnapshot()

	case key.Matches(msg, m.keys.NewTodo):
		if m.currentView == ViewTodos && m.store.CanEdit() {
			m.previousView = m.currentView
			m.currentView = ViewTodoForm
			m.todoForm.SetTags(m.store.Tags())
			cmd := m.todoForm.StartCreate()
			return true, m, cmd
		}
		return false, m, nil

	case key.Matches(msg, m.keys.NewList):
		m.previousView = m.currentView
		m.currentView = ViewListForm
		cmd := m.listForm.StartCreate()
		return true, m, cmd
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTodos:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewLists:
		m.listPicker, cmd = m.listPicker.Update(msg)
	case ViewActivity:
		m.activity, cmd = m.activity.Update(msg)
	case ViewTodoForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewListForm:
		m.listForm, cmd = m.listForm.Update(msg)
	case ViewShareForm:
		m.shareForm, cmd = m.shareForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTodos:
		return m.todoList.View()
	case ViewLists:
		return m.listPicker.View()
	case ViewActivity:
		return m.activity.View()
	case ViewTodoForm:
		return m.todoForm.View()
	case ViewListForm:
		return m.listForm.View()
	case ViewShareForm:
		return m.shareForm.View()
	default:
		return ""
	}
}

// headerTitle shows the app name and the selected list.
func (m Model) headerTitle() string {
	if selected, ok := m.store.SelectedList(); ok {
		return fmt.Sprintf("todoterm · %s", selected.Name)
	}
	return "todoterm"
}

// headerStatus shows the signed-in user and the loading indicator.
func (m Model) headerStatus() string {
	status := ""
	if user := m.session.CurrentUser(); user != nil {
		status = user.Username
	}
	if m.store.Loading() {
		status += " ⟳"
	}
	return status
}

// statusLine prefers an active toast, then the shared error, then the
// per-view key hints.
func (m Model) statusLine() string {
	if m.toast != nil {
		return fmt.Sprintf("[%s] %s", m.toast.Level, m.toast.Message)
	}
	if errMsg := m.store.Err(); errMsg != "" {
		return "error: " + errMsg
	}

	switch m.currentView {
	case ViewLists:
		return "enter select | N new | E edit | D delete | s share | esc back"
	case ViewActivity:
		return "j/k scroll | esc back"
	case ViewTodoForm, ViewListForm, ViewShareForm:
		return "enter submit | esc cancel"
	default:
		return "q quit | n new | e edit | d delete | space status | / search | l lists | v activity | tab sort | r refresh"
	}
}
