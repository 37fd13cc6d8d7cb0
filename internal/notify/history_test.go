package notify

import (
	"context"
	"testing"
	"time"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()

	h, err := NewHistory(":memory:")
	if err != nil {
		t.Fatalf("creating history: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("closing history: %v", err)
		}
	})
	return h
}

func TestRecordAndRecent(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, msg := range []string{"first", "second", "third"} {
		err := h.Record(ctx, Toast{
			ID:        msg,
			Level:     LevelSuccess,
			Message:   msg,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("recording %q: %v", msg, err)
		}
	}

	toasts, err := h.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(toasts) != 2 {
		t.Fatalf("recent = %d entries, want 2", len(toasts))
	}
	if toasts[0].Message != "third" || toasts[1].Message != "second" {
		t.Errorf("order = [%s %s], want newest first", toasts[0].Message, toasts[1].Message)
	}
	if toasts[0].Level != LevelSuccess {
		t.Errorf("level = %q", toasts[0].Level)
	}
}

func TestRecentDefaultsLimit(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	if err := h.Record(ctx, Toast{ID: "a", Level: LevelInfo, Message: "a", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	toasts, err := h.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(toasts) != 1 {
		t.Errorf("recent = %d, want 1", len(toasts))
	}
}

func TestPruneDropsOldEntries(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	old := Toast{ID: "old", Level: LevelError, Message: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := Toast{ID: "fresh", Level: LevelError, Message: "fresh", CreatedAt: time.Now()}
	for _, toast := range []Toast{old, fresh} {
		if err := h.Record(ctx, toast); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.Prune(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	toasts, err := h.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(toasts) != 1 || toasts[0].ID != "fresh" {
		t.Errorf("after prune = %+v, want only the fresh toast", toasts)
	}
}

func TestFeedDeliversAndPersists(t *testing.T) {
	h := newTestHistory(t)
	feed := NewFeed(4, h)

	feed.Success("saved")

	select {
	case toast := <-feed.Toasts():
		if toast.Level != LevelSuccess || toast.Message != "saved" {
			t.Errorf("toast = %+v", toast)
		}
	default:
		t.Fatal("expected a buffered toast")
	}

	toasts, err := h.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(toasts) != 1 {
		t.Errorf("persisted = %d, want 1", len(toasts))
	}
}

func TestFeedDropsWhenFull(t *testing.T) {
	feed := NewFeed(1, nil)

	feed.Error("kept")
	feed.Error("dropped")

	if got := len(feed.ch); got != 1 {
		t.Fatalf("buffered = %d, want 1", got)
	}
	toast := <-feed.ch
	if toast.Message != "kept" {
		t.Errorf("message = %q, want the first toast", toast.Message)
	}
}
