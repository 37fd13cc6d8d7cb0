// Package realtime subscribes to the optional broadcast relay. On a
// remote change event it re-triggers the store's own fetches; pushed
// payloads are never merged field-by-field.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nhle/todoterm/internal/logging"
)

// Event types broadcast by the relay.
const (
	EventTodosSync   = "todos:sync"
	EventTodoCreated = "todo:created"
	EventTodoUpdated = "todo:updated"
	EventTodoDeleted = "todo:deleted"
	EventActivityNew = "activity:new"
)

// Event is a relay broadcast frame.
type Event struct {
	Type   string `json:"type"`
	ListID *int64 `json:"list_id,omitempty"`
	TodoID *int64 `json:"todo_id,omitempty"`
	Sender string `json:"sender,omitempty"`
}

// Handler reacts to remote changes. Implementations re-fetch through
// the synchronization store.
type Handler interface {
	TodosChanged(ctx context.Context, listID *int64)
	ActivityPosted(ctx context.Context, listID *int64)
}

// maxBackoff caps the reconnect delay.
const maxBackoff = 30 * time.Second

// Subscriber maintains a websocket connection to the relay and
// dispatches events to its handler. Its own broadcasts (matched by
// client id) are ignored.
type Subscriber struct {
	url      string
	clientID string
	handler  Handler
	logger   *log.Logger
	dialer   *websocket.Dialer
}

// NewSubscriber creates a subscriber for the relay at url. logger may
// be nil.
func NewSubscriber(url string, handler Handler, logger *log.Logger) *Subscriber {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Subscriber{
		url:      url,
		clientID: uuid.New().String(),
		handler:  handler,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
	}
}

// ClientID returns the id this subscriber identifies itself with.
func (s *Subscriber) ClientID() string {
	return s.clientID
}

// Run connects to the relay and dispatches events until ctx is
// cancelled, reconnecting with exponential backoff on failure.
func (s *Subscriber) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.logger.Warn("relay dial failed", "url", s.url, "err", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = time.Second
		s.logger.Info("relay connected", "url", s.url)

		if err := s.readLoop(ctx, conn); err != nil {
			s.logger.Warn("relay read loop ended", "err", err)
		}
		conn.Close()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// readLoop reads frames until the connection drops or ctx is
// cancelled. Cancellation closes the connection to unblock the read.
func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("reading relay message: %w", err)
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			s.logger.Debug("skipping malformed relay frame", "err", err)
			continue
		}

		s.dispatch(ctx, event)
	}
}

// dispatch routes one event to the handler.
func (s *Subscriber) dispatch(ctx context.Context, event Event) {
	if event.Sender == s.clientID {
		return
	}

	switch event.Type {
	case EventTodosSync, EventTodoCreated, EventTodoUpdated, EventTodoDeleted:
		s.handler.TodosChanged(ctx, event.ListID)
	case EventActivityNew:
		s.handler.ActivityPosted(ctx, event.ListID)
	default:
		s.logger.Debug("ignoring relay event", "type", event.Type)
	}
}
