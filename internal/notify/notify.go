// Package notify is the user-facing toast relay. Store operations
// emit fire-and-forget toasts here; the TUI drains them from a
// buffered feed.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level is the visual severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Toast is a single user-facing notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier receives operation outcomes. Implementations must not
// block the caller.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
	Warning(message string)
}

// Discard is a Notifier that drops everything. Useful in tests.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}
func (Discard) Warning(string) {}

// Feed is a buffered toast channel with optional persistent history.
type Feed struct {
	ch      chan Toast
	history *History
}

// NewFeed creates a feed with the given buffer size. history may be
// nil to disable persistence.
func NewFeed(buffer int, history *History) *Feed {
	if buffer <= 0 {
		buffer = 16
	}
	return &Feed{
		ch:      make(chan Toast, buffer),
		history: history,
	}
}

// Toasts returns the channel the TUI drains.
func (f *Feed) Toasts() <-chan Toast {
	return f.ch
}

func (f *Feed) Success(message string) { f.emit(LevelSuccess, message) }
func (f *Feed) Error(message string)   { f.emit(LevelError, message) }
func (f *Feed) Info(message string)    { f.emit(LevelInfo, message) }
func (f *Feed) Warning(message string) { f.emit(LevelWarning, message) }

// emit enqueues a toast without blocking; if the buffer is full the
// toast is dropped rather than stalling a store operation.
func (f *Feed) emit(level Level, message string) {
	toast := Toast{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if f.history != nil {
		_ = f.history.Record(context.Background(), toast)
	}

	select {
	case f.ch <- toast:
	default:
	}
}
