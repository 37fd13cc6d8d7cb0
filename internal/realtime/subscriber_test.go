package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// recordingHandler collects dispatched events.
type recordingHandler struct {
	mu       sync.Mutex
	todos    []*int64
	activity []*int64
}

func (h *recordingHandler) TodosChanged(_ context.Context, listID *int64) {
	h.mu.Lock()
	h.todos = append(h.todos, listID)
	h.mu.Unlock()
}

func (h *recordingHandler) ActivityPosted(_ context.Context, listID *int64) {
	h.mu.Lock()
	h.activity = append(h.activity, listID)
	h.mu.Unlock()
}

func (h *recordingHandler) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.todos), len(h.activity)
}

// relayServer upgrades connections and writes the given frames.
func relayServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Keep the connection open until the client leaves.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatchesTodoAndActivityEvents(t *testing.T) {
	server := relayServer(t, []string{
		`{"type": "todo:created", "list_id": 7, "sender": "someone-else"}`,
		`{"type": "activity:new", "list_id": 7}`,
		`{"type": "todos:sync"}`,
	})

	handler := &recordingHandler{}
	sub := NewSubscriber(wsURL(server), handler, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		todos, activity := handler.counts()
		return todos == 2 && activity == 1
	})

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if handler.todos[0] == nil || *handler.todos[0] != 7 {
		t.Errorf("first todo event list id = %v, want 7", handler.todos[0])
	}
	if handler.todos[1] != nil {
		t.Errorf("sync event list id = %v, want nil", handler.todos[1])
	}
}

func TestOwnEventsSkipped(t *testing.T) {
	handler := &recordingHandler{}

	// Build the subscriber first so the relay can echo its client id.
	sub := NewSubscriber("", handler, nil)
	server := relayServer(t, []string{
		`{"type": "todo:updated", "list_id": 3, "sender": "` + sub.ClientID() + `"}`,
		`{"type": "todo:updated", "list_id": 4, "sender": "other"}`,
	})
	sub.url = wsURL(server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		todos, _ := handler.counts()
		return todos == 1
	})

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if *handler.todos[0] != 4 {
		t.Errorf("dispatched list id = %d, want 4 (own event skipped)", *handler.todos[0])
	}
}

func TestMalformedFramesSkipped(t *testing.T) {
	server := relayServer(t, []string{
		`not json at all`,
		`{"type": "unknown:event"}`,
		`{"type": "todos:sync"}`,
	})

	handler := &recordingHandler{}
	sub := NewSubscriber(wsURL(server), handler, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		todos, _ := handler.counts()
		return todos == 1
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	server := relayServer(t, nil)

	sub := NewSubscriber(wsURL(server), &recordingHandler{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
