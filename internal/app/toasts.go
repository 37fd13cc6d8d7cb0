package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoterm/internal/notify"
)

// toastDuration is how long a toast stays in the status bar.
const toastDuration = 4 * time.Second

// toastMsg carries one toast from the feed into the UI loop.
type toastMsg struct {
	toast notify.Toast
}

// toastExpiredMsg clears the toast identified by seq. A newer toast
// keeps the bar.
type toastExpiredMsg struct {
	seq int
}

// waitForToast blocks on the feed until the next toast arrives.
func (m Model) waitForToast() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		toast, ok := <-feed.Toasts()
		if !ok {
			return nil
		}
		return toastMsg{toast: toast}
	}
}

// expireToast schedules the toast with the given sequence number to be
// cleared.
func (m Model) expireToast(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
