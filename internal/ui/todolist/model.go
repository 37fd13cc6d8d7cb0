package todolist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoterm/internal/keys"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/store"
	"github.com/nhle/todoterm/internal/theme"
)

// TodosReloadedMsg tells the view to re-render from the store snapshot.
type TodosReloadedMsg struct{}

// ToggleRequestMsg asks the app to cycle the status of a todo.
type ToggleRequestMsg struct {
	TodoID int64
}

// EditRequestMsg asks the app to open the edit form for a todo.
type EditRequestMsg struct {
	Todo model.Todo
}

// DeleteRequestMsg asks the app to delete a todo.
type DeleteRequestMsg struct {
	TodoID int64
}

// sortModes defines the sort fields cycled by Tab.
var sortModes = []store.TodoSort{
	{Field: store.SortByCreatedAt, Order: store.SortDesc},
	{Field: store.SortByDueDate, Order: store.SortAsc},
	{Field: store.SortByPriority, Order: store.SortAsc},
	{Field: store.SortByStatus, Order: store.SortAsc},
	{Field: store.SortByName, Order: store.SortAsc},
}

// Model is the todo list view for the selected list.
type Model struct {
	list        list.Model
	store       *store.Store
	keys        *keys.KeyMap
	sortIndex   int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new todo list model backed by the sync store.
func New(s *store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Todos"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search todos..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Reload replaces the rendered items from the store's filtered view.
func (m *Model) Reload() tea.Cmd {
	todos := m.store.FilteredTodos()
	items := make([]list.Item, len(todos))
	for i, t := range todos {
		items[i] = TodoItem{Todo: t}
	}
	return m.list.SetItems(items)
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TodosReloadedMsg:
		cmd := m.Reload()
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		filter := m.store.Filter()
		filter.SearchTerm = m.searchInput.Value()
		m.store.SetFilter(filter)
		cmd := m.Reload()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		filter := m.store.Filter()
		filter.SearchTerm = ""
		m.store.SetFilter(filter)
		cmd := m.Reload()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.store.SetSort(sortModes[m.sortIndex])
		cmd := m.Reload()
		return m, cmd

	case key.Matches(msg, m.keys.ToggleStatus):
		if todo, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleRequestMsg{TodoID: todo.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.EditTodo):
		if todo, ok := m.Selected(); ok {
			return m, func() tea.Msg { return EditRequestMsg{Todo: todo} }
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteTodo):
		if todo, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteRequestMsg{TodoID: todo.ID} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the todo list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when the list has no todos.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if _, ok := m.store.SelectedListID(); !ok {
		return style.Render("No list selected.\n\nPress N to create one.")
	}
	if !m.store.CanEdit() {
		return style.Render("This shared list is empty.")
	}
	return style.Render("Nothing here yet.\n\nPress n to add a todo.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
