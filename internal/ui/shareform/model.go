// Package shareform collects a grantee identifier and permission level
// for sharing a list.
package shareform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/theme"
)

// SubmitMsg is dispatched when the form submits a share request.
type SubmitMsg struct {
	ListID int64
	Data   api.PermissionCreate
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	identifier string
	level      string
}

// Model is the Bubble Tea model for the share-list form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	listID   int64
	listName string
	width    int
	height   int
}

// New creates a new share form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{level: string(model.PermissionView)},
		width:  width,
		height: height,
	}
}

// Start initializes the form for sharing the given list.
func (m *Model) Start(list model.List) tea.Cmd {
	m.listID = list.ID
	m.listName = list.Name
	m.fb.identifier = ""
	m.fb.level = string(model.PermissionView)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the share form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the share form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(fmt.Sprintf("Share %q", m.listName))
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Placeholder("email or username").
				Value(&m.fb.identifier).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("User is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Permission").
				Options(
					huh.NewOption("View only", string(model.PermissionView)),
					huh.NewOption("Can edit", string(model.PermissionUpdate)),
				).
				Value(&m.fb.level),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	data := api.PermissionCreate{
		UserIdentifier: strings.TrimSpace(m.fb.identifier),
		Level:          model.PermissionLevel(m.fb.level),
	}
	listID := m.listID
	return func() tea.Msg { return SubmitMsg{ListID: listID, Data: data} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
