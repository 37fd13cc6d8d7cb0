// Package activity renders the recent-activity feed for the selected
// list or, when nothing is selected, for the current user.
package activity

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoterm/internal/keys"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/store"
	"github.com/nhle/todoterm/internal/theme"
)

// ReloadedMsg tells the feed to re-render from the store snapshot.
type ReloadedMsg struct{}

// Model is the activity feed view.
type Model struct {
	viewport viewport.Model
	store    *store.Store
	keys     *keys.KeyMap
	width    int
}

// New creates an activity feed backed by the sync store.
func New(s *store.Store, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	return Model{viewport: vp, store: s, keys: k, width: width}
}

// Reload re-renders the feed content from the store.
func (m *Model) Reload() {
	entries := m.store.Activities()
	if len(entries) == 0 {
		m.viewport.SetContent(theme.HelpStyle.Render("No recent activity."))
		return
	}

	lines := make([]string, 0, len(entries))
	for _, a := range entries {
		lines = append(lines, renderEntry(a, m.width))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// Update handles messages for the feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadedMsg:
		m.Reload()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the feed.
func (m Model) View() string {
	title := theme.HeaderStyle.Render("Activity")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// renderEntry formats a single activity line: timestamp, actor, and a
// human-readable description of the action.
func renderEntry(a model.Activity, width int) string {
	ts := theme.HelpStyle.Render(a.CreatedAt.Format("Jan 02 15:04"))

	actor := "someone"
	if a.User != nil {
		actor = a.User.Username
	}

	line := fmt.Sprintf("%s  %s %s", ts, actor, describe(a))
	return lipgloss.NewStyle().Width(width).Render(line)
}

// describe builds the action phrase, pulling the entity name out of
// the details payload when the backend recorded one.
func describe(a model.Activity) string {
	noun := entityNoun(a.Entity)
	name := ""
	if v, ok := a.Details["name"]; ok {
		if s, ok := v.(string); ok {
			name = fmt.Sprintf(" %q", s)
		}
	}

	switch a.Action {
	case model.ActionCreated:
		return fmt.Sprintf("created %s%s", noun, name)
	case model.ActionUpdated:
		return fmt.Sprintf("updated %s%s", noun, name)
	case model.ActionStatusChanged:
		to := ""
		if v, ok := a.Details["new_status"]; ok {
			if s, ok := v.(string); ok {
				to = " to " + s
			}
		}
		return fmt.Sprintf("moved %s%s%s", noun, name, to)
	case model.ActionDeleted:
		return fmt.Sprintf("deleted %s%s", noun, name)
	case model.ActionShared:
		return fmt.Sprintf("shared %s%s", noun, name)
	default:
		return fmt.Sprintf("%s %s%s", a.Action, noun, name)
	}
}

func entityNoun(e model.EntityType) string {
	switch e {
	case model.EntityTodoList:
		return "a list"
	case model.EntityTodo:
		return "a todo"
	case model.EntityPermission:
		return "a permission"
	default:
		return string(e)
	}
}
