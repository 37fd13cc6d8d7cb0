package listpicker

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/keys"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/store"
	"github.com/nhle/todoterm/internal/theme"
)

// ListsReloadedMsg tells the picker to re-render from the store.
type ListsReloadedMsg struct{}

// PickedMsg reports that the user selected a list.
type PickedMsg struct {
	ListID int64
}

// EditRequestMsg asks the app to open the edit form for a list.
type EditRequestMsg struct {
	List model.List
}

// DeleteRequestMsg asks the app to delete a list.
type DeleteRequestMsg struct {
	ListID int64
}

// ShareRequestMsg asks the app to open the share form for a list.
type ShareRequestMsg struct {
	List model.List
}

// Model is the list picker view.
type Model struct {
	list  list.Model
	store *store.Store
	keys  *keys.KeyMap
}

// New creates a list picker backed by the sync store.
func New(s *store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Lists"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, store: s, keys: k}
}

// Reload replaces the rendered items from the store snapshot.
func (m *Model) Reload() tea.Cmd {
	lists := m.store.Lists()
	items := make([]list.Item, len(lists))
	for i, l := range lists {
		items[i] = ListItem{List: l}
	}
	return m.list.SetItems(items)
}

// Selected returns the list under the cursor.
func (m Model) Selected() (model.List, bool) {
	item, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		return model.List{}, false
	}
	return item.List, true
}

// Update handles messages for the picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ListsReloadedMsg:
		cmd := m.Reload()
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			if l, ok := m.Selected(); ok {
				return m, func() tea.Msg { return PickedMsg{ListID: l.ID} }
			}
			return m, nil

		case key.Matches(msg, m.keys.EditList):
			if l, ok := m.Selected(); ok {
				if l.Editable() {
					return m, func() tea.Msg { return EditRequestMsg{List: l} }
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.DeleteList):
			if l, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteRequestMsg{ListID: l.ID} }
			}
			return m, nil

		case key.Matches(msg, m.keys.ShareList):
			if l, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ShareRequestMsg{List: l} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-2)
}
