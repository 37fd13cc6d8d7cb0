package listform

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

// CreateMsg is dispatched when the form submits a new list.
type CreateMsg struct {
	Data api.ListCreate
}

// UpdateMsg is dispatched when the form submits changes to a list.
type UpdateMsg struct {
	ListID int64
	Data   api.ListUpdate
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// listColors are the preset colors offered by the form.
var listColors = []string{
	"#5B9BD5", "#6BCB77", "#FFD93D", "#FF6B6B", "#FFA94D", "#CC5DE8",
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	color       string
	archived    bool
}

// Model is the Bubble Tea model for the list create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	width    int
	height   int
}

// New creates a new list form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{color: listColors[0]},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new list.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.name = ""
	m.fb.description = ""
	m.fb.color = listColors[0]
	m.fb.archived = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing list.
func (m *Model) StartEdit(list model.List) tea.Cmd {
	m.editMode = true
	m.editID = list.ID
	m.fb.name = list.Name
	if list.Description != nil {
		m.fb.description = *list.Description
	} else {
		m.fb.description = ""
	}
	m.fb.color = list.Color
	if m.fb.color == "" {
		m.fb.color = listColors[0]
	}
	m.fb.archived = list.Archived
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the list form.
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

// View renders the list form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New List"
	if m.editMode {
		titleText = "Edit List"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	colorOpts := make([]huh.Option[string], len(listColors))
	for i, c := range listColors {
		colorOpts[i] = huh.NewOption(c, c)
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("Groceries, Work, ...").
			Value(&m.fb.name).
			Validate(validateRequired("Name")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Color").
			Options(colorOpts...).
			Value(&m.fb.color),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Archived").
				Value(&m.fb.archived),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	name := strings.TrimSpace(m.fb.name)
	desc := strings.TrimSpace(m.fb.description)
	color := m.fb.color

	if m.editMode {
		archived := m.fb.archived
		update := api.ListUpdate{
			Name:     &name,
			Color:    &color,
			Archived: &archived,
		}
		if desc != "" {
			update.Description = &desc
		}
		listID := m.editID
		return func() tea.Msg { return UpdateMsg{ListID: listID, Data: update} }
	}

	create := api.ListCreate{Name: name, Color: color}
	if desc != "" {
		create.Description = &desc
	}
	return func() tea.Msg { return CreateMsg{Data: create} }
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
