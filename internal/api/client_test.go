package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/model"
	"github.com/nhle/todoterm/tests/testutil"
)

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, testutil.StaticTokenSource{Value: "abc123"})
	if _, err := client.Lists(context.Background()); err != nil {
		t.Fatalf("Lists: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc123")
	}
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, testutil.StaticTokenSource{})
	if _, err := client.Lists(context.Background()); err != nil {
		t.Fatalf("Lists: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestDetailErrorParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "Not enough permissions"}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	_, err := client.Lists(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Detail != "Not enough permissions" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream broke</html>"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	_, err := client.Lists(context.Background())

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.Detail != "request failed with status 502" {
		t.Errorf("detail = %q, want generic fallback", apiErr.Detail)
	}
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	if err := client.DeleteList(context.Background(), 5); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
}

func TestTrailingSlashTrimmedFromBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL+"/", nil)
	if _, err := client.Lists(context.Background()); err != nil {
		t.Fatalf("Lists: %v", err)
	}
	if gotPath != "/lists/" {
		t.Errorf("path = %q, want /lists/", gotPath)
	}
}

func TestTodoRoundTripAgainstFakeBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := backend.Client()
	ctx := context.Background()

	list, err := client.CreateList(ctx, api.ListCreate{Name: "Inbox"})
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	created, err := client.CreateTodo(ctx, list.ID, api.TodoCreate{
		Name:     "write tests",
		DueDate:  "2026-04-01",
		Priority: model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.Status != model.StatusNotStarted {
		t.Errorf("default status = %q", created.Status)
	}

	// Empty partial update changes nothing.
	same, err := client.UpdateTodo(ctx, list.ID, created.ID, api.TodoUpdate{})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if same.Name != created.Name || same.Status != created.Status ||
		same.Priority != created.Priority || same.DueDate != created.DueDate {
		t.Errorf("empty update changed the todo: %+v vs %+v", same, created)
	}

	if err := client.DeleteTodo(ctx, list.ID, created.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	todos, err := client.Todos(ctx, list.ID)
	if err != nil {
		t.Fatalf("Todos: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("todos after delete = %d, want 0", len(todos))
	}
}
