package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/theme"
)

// CreateMsg is dispatched when the form submits a new todo.
type CreateMsg struct {
	Data api.TodoCreate
}

// UpdateMsg is dispatched when the form submits changes to a todo.
type UpdateMsg struct {
	TodoID int64
	Data   api.TodoUpdate
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	dueDate     string
	status      string
	priority    string
	tagIDs      []int64
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	tags     []model.Tag
	width    int
	height   int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:   string(model.StatusNotStarted),
			priority: string(model.PriorityMedium),
		},
		width:  width,
		height: height,
	}
}

// SetTags sets the available tags for the multi-select.
func (m *Model) SetTags(tags []model.Tag) {
	m.tags = tags
}

// StartCreate initializes the form for creating a new todo.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.name = ""
	m.fb.description = ""
	m.fb.dueDate = ""
	m.fb.status = string(model.StatusNotStarted)
	m.fb.priority = string(model.PriorityMedium)
	m.fb.tagIDs = nil
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing todo.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editMode = true
	m.editID = todo.ID
	m.fb.name = todo.Name
	if todo.Description != nil {
		m.fb.description = *todo.Description
	} else {
		m.fb.description = ""
	}
	m.fb.dueDate = todo.DueDate
	m.fb.status = string(todo.Status)
	m.fb.priority = string(todo.Priority)
	m.fb.tagIDs = nil
	for _, t := range todo.Tags {
		m.fb.tagIDs = append(m.fb.tagIDs, t.ID)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
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

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
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
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("What needs to be done?").
			Value(&m.fb.name).
			Validate(validateRequired("Name")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("Not Started", string(model.StatusNotStarted)),
				huh.NewOption("In Progress", string(model.StatusInProgress)),
				huh.NewOption("Completed", string(model.StatusCompleted)),
			).
			Value(&m.fb.status),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("Highest", string(model.PriorityHighest)),
				huh.NewOption("High", string(model.PriorityHigh)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("Low", string(model.PriorityLow)),
				huh.NewOption("Lowest", string(model.PriorityLowest)),
			).
			Value(&m.fb.priority),
	}
	if tagField := m.tagField(); tagField != nil {
		fields = append(fields, tagField)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) tagField() huh.Field {
	if len(m.tags) == 0 {
		return nil
	}
	opts := make([]huh.Option[int64], len(m.tags))
	for i, t := range m.tags {
		opts[i] = huh.NewOption(t.Name, t.ID)
	}
	return huh.NewMultiSelect[int64]().
		Title("Tags").
		Options(opts...).
		Value(&m.fb.tagIDs)
}

func (m Model) handleSubmit() tea.Cmd {
	name := strings.TrimSpace(m.fb.name)
	desc := strings.TrimSpace(m.fb.description)
	due := strings.TrimSpace(m.fb.dueDate)
	status := model.TodoStatus(m.fb.status)
	priority := model.TodoPriority(m.fb.priority)
	tagIDs := m.fb.tagIDs

	if m.editMode {
		update := api.TodoUpdate{
			Name:     &name,
			DueDate:  &due,
			Status:   &status,
			Priority: &priority,
			TagIDs:   tagIDs,
		}
		if desc != "" {
			update.Description = &desc
		}
		todoID := m.editID
		return func() tea.Msg { return UpdateMsg{TodoID: todoID, Data: update} }
	}

	create := api.TodoCreate{
		Name:     name,
		DueDate:  due,
		Status:   status,
		Priority: priority,
		TagIDs:   tagIDs,
	}
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

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
