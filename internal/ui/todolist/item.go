package todolist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
type TodoItem struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Name }

// ItemDelegate implements list.ItemDelegate for rendering todo rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single todo line: status glyph, name, priority,
// due date, and tags.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	todoItem, ok := item.(TodoItem)
	if !ok {
		return
	}

	t := todoItem.Todo
	line := fmt.Sprintf("%s %s", statusGlyph(t.Status), t.Name)

	meta := []string{string(t.Priority)}
	if t.DueDate != "" {
		meta = append(meta, "due "+t.DueDate)
	}
	if len(t.Tags) > 0 {
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = tag.Name
		}
		meta = append(meta, "#"+strings.Join(names, " #"))
	}
	line += theme.HelpStyle.Render("  " + strings.Join(meta, " · "))

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

func statusGlyph(status model.TodoStatus) string {
	switch status {
	case model.StatusCompleted:
		return theme.StatusStyle(status).Render("✓")
	case model.StatusInProgress:
		return theme.StatusStyle(status).Render("◐")
	default:
		return theme.StatusStyle(status).Render("○")
	}
}
