package listpicker

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/theme"
)

// ListItem wraps a model.List for the picker.
type ListItem struct {
	List model.List
}

// FilterValue returns the string used for fuzzy filtering.
func (i ListItem) FilterValue() string { return i.List.Name }

// ItemDelegate renders list rows with count and sharing badges.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws one list row: name, todo count, and a permission badge
// when the list is shared with the current user.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	listItem, ok := item.(ListItem)
	if !ok {
		return
	}

	l := listItem.List
	var b strings.Builder
	b.WriteString(l.Name)

	if l.TodoCount != nil {
		b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("  %d todos", *l.TodoCount)))
	}
	if l.PermissionLevel != nil {
		badge := theme.PermissionStyle(*l.PermissionLevel).Render(string(*l.PermissionLevel))
		b.WriteString("  " + badge)
	}
	if l.Archived {
		b.WriteString(theme.HelpStyle.Render("  archived"))
	}

	line := b.String()
	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}
