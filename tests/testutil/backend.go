// Package testutil provides an in-memory fake of the todo backend for
// package tests. It speaks the same REST surface and error shape as
// the real server.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/model"
)

// Token is the bearer token the fake backend accepts.
const Token = "test-token"

// StaticTokenSource satisfies api.TokenSource with a fixed token.
type StaticTokenSource struct {
	Value string
}

func (s StaticTokenSource) Token() (string, bool) {
	return s.Value, s.Value != ""
}

// Backend is an in-memory todo backend served over httptest.
type Backend struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	nextID     int64
	user       model.User
	lists      map[int64]*model.List
	todos      map[int64][]model.Todo
	tags       []model.Tag
	perms      map[int64][]model.ListPermission
	activities []model.Activity

	// TodoFetches counts GET /lists/{id}/todos calls per list.
	TodoFetches map[int64]int
	// ListFetches counts GET /lists/ calls.
	ListFetches int

	failStatus int
	failDetail string
}

// NewBackend starts a fake backend and closes it when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:           t,
		nextID:      1,
		user:        model.User{ID: 1, Email: "me@example.com", Username: "me", Active: true},
		lists:       make(map[int64]*model.List),
		todos:       make(map[int64][]model.Todo),
		perms:       make(map[int64][]model.ListPermission),
		TodoFetches: make(map[int64]int),
	}

	mux := http.NewServeMux()
	b.register(mux)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)

	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns an api.Client already authenticated against the
// backend.
func (b *Backend) Client() *api.Client {
	return api.NewClient(b.server.URL, StaticTokenSource{Value: Token})
}

// FailNext makes the next request fail with the given status and
// detail message.
func (b *Backend) FailNext(status int, detail string) {
	b.mu.Lock()
	b.failStatus = status
	b.failDetail = detail
	b.mu.Unlock()
}

// SeedList adds a list owned by the test user and returns it.
func (b *Backend) SeedList(name string) model.List {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := model.List{
		ID:        b.nextID,
		Name:      name,
		OwnerID:   b.user.ID,
		CreatedAt: time.Now(),
	}
	b.nextID++
	b.lists[l.ID] = &l
	return l
}

// SeedSharedList adds a list shared with the test user at the given
// permission level.
func (b *Backend) SeedSharedList(name string, level model.PermissionLevel) model.List {
	l := b.SeedList(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists[l.ID].OwnerID = 99
	b.lists[l.ID].PermissionLevel = &level
	return *b.lists[l.ID]
}

// SeedTodo adds a todo to a list and returns it.
func (b *Backend) SeedTodo(listID int64, name string) model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()

	todo := model.Todo{
		ID:        b.nextID,
		ListID:    listID,
		Name:      name,
		DueDate:   "2026-01-15",
		Status:    model.StatusNotStarted,
		Priority:  model.PriorityMedium,
		CreatedAt: time.Now(),
	}
	b.nextID++
	b.todos[listID] = append(b.todos[listID], todo)
	return todo
}

// SeedTag adds a tag and returns it.
func (b *Backend) SeedTag(name string) model.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()

	tag := model.Tag{ID: b.nextID, Name: name}
	b.nextID++
	b.tags = append(b.tags, tag)
	return tag
}

// Todos returns the backend's current todos for a list.
func (b *Backend) Todos(listID int64) []model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Todo, len(b.todos[listID]))
	copy(out, b.todos[listID])
	return out
}

func (b *Backend) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", b.handleRegister)
	mux.HandleFunc("POST /auth/login", b.handleLogin)
	mux.HandleFunc("GET /auth/verify", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}))
	mux.HandleFunc("GET /auth/me", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.user)
	}))

	mux.HandleFunc("GET /lists/{$}", b.authed(b.handleLists))
	mux.HandleFunc("POST /lists/{$}", b.authed(b.handleCreateList))
	mux.HandleFunc("GET /lists/{id}", b.authed(b.handleListDetail))
	mux.HandleFunc("PUT /lists/{id}", b.authed(b.handleUpdateList))
	mux.HandleFunc("DELETE /lists/{id}", b.authed(b.handleDeleteList))

	mux.HandleFunc("POST /lists/{id}/permissions", b.authed(b.handleShare))
	mux.HandleFunc("GET /lists/{id}/permissions", b.authed(b.handlePermissions))

	mux.HandleFunc("GET /lists/{id}/todos", b.authed(b.handleTodos))
	mux.HandleFunc("POST /lists/{id}/todos", b.authed(b.handleCreateTodo))
	mux.HandleFunc("PUT /lists/{id}/todos/{tid}", b.authed(b.handleUpdateTodo))
	mux.HandleFunc("DELETE /lists/{id}/todos/{tid}", b.authed(b.handleDeleteTodo))

	mux.HandleFunc("GET /tags/{$}", b.authed(b.handleTags))
	mux.HandleFunc("POST /tags/{$}", b.authed(b.handleCreateTag))

	mux.HandleFunc("GET /activity/{$}", b.authed(b.handleActivity))
	mux.HandleFunc("GET /activity/list/{id}", b.authed(b.handleActivity))
	mux.HandleFunc("GET /activity/all", b.authed(b.handleActivity))
}

// authed wraps a handler with bearer-token checking and failure
// injection.
func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		if b.failStatus != 0 {
			status, detail := b.failStatus, b.failDetail
			b.failStatus, b.failDetail = 0, ""
			b.mu.Unlock()
			writeDetail(w, status, detail)
			return
		}
		b.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	writeJSON(w, http.StatusCreated, model.User{
		ID: 2, Email: req.Email, Username: req.Username, Active: true,
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if req.Password == "wrong" {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, api.AuthResponse{
		AccessToken: Token,
		TokenType:   "bearer",
		User:        b.user,
	})
}

func (b *Backend) handleLists(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.ListFetches++
	out := make([]model.List, 0, len(b.lists))
	for _, l := range b.lists {
		copied := *l
		count := len(b.todos[l.ID])
		copied.TodoCount = &count
		out = append(out, copied)
	}
	b.mu.Unlock()

	// Stable order by id so auto-selection is deterministic.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req api.ListCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	l := model.List{
		ID:          b.nextID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		OwnerID:     b.user.ID,
		CreatedAt:   time.Now(),
	}
	b.nextID++
	b.lists[l.ID] = &l
	b.recordActivity(model.ActionCreated, model.EntityTodoList, l.ID, l.ID, l.Name)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, l)
}

func (b *Backend) handleListDetail(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.lists[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}
	writeJSON(w, http.StatusOK, model.ListDetail{
		List:       *l,
		Todos:      b.todos[id],
		SharedWith: b.perms[id],
	})
}

func (b *Backend) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req api.ListUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.lists[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Description != nil {
		l.Description = req.Description
	}
	if req.Color != nil {
		l.Color = *req.Color
	}
	if req.Archived != nil {
		l.Archived = *req.Archived
	}
	now := time.Now()
	l.UpdatedAt = &now
	b.recordActivity(model.ActionUpdated, model.EntityTodoList, id, id, l.Name)
	writeJSON(w, http.StatusOK, *l)
}

func (b *Backend) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.lists[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}
	b.recordActivity(model.ActionDeleted, model.EntityTodoList, id, id, l.Name)
	delete(b.lists, id)
	delete(b.todos, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleShare(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req api.PermissionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lists[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}
	if req.UserIdentifier == "nobody" {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	perm := model.ListPermission{
		ID:     b.nextID,
		ListID: id,
		UserID: 42,
		Level:  req.Level,
	}
	b.nextID++
	b.perms[id] = append(b.perms[id], perm)
	b.recordActivity(model.ActionShared, model.EntityPermission, id, perm.ID, req.UserIdentifier)
	writeJSON(w, http.StatusCreated, perm)
}

func (b *Backend) handlePermissions(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.perms[id])
}

func (b *Backend) handleTodos(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lists[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}
	b.TodoFetches[id]++
	todos := b.todos[id]
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (b *Backend) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req api.TodoCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lists[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Todo list not found")
		return
	}

	todo := model.Todo{
		ID:          b.nextID,
		ListID:      id,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedAt:   time.Now(),
		Tags:        b.tagsByID(req.TagIDs),
	}
	if todo.Status == "" {
		todo.Status = model.StatusNotStarted
	}
	if todo.Priority == "" {
		todo.Priority = model.PriorityMedium
	}
	b.nextID++
	b.todos[id] = append(b.todos[id], todo)
	b.recordActivity(model.ActionCreated, model.EntityTodo, id, todo.ID, todo.Name)
	writeJSON(w, http.StatusCreated, todo)
}

func (b *Backend) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	listID := pathID(r, "id")
	todoID := pathID(r, "tid")
	var req api.TodoUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	todos := b.todos[listID]
	for i := range todos {
		if todos[i].ID != todoID {
			continue
		}
		if req.Name != nil {
			todos[i].Name = *req.Name
		}
		if req.Description != nil {
			todos[i].Description = req.Description
		}
		if req.DueDate != nil {
			todos[i].DueDate = *req.DueDate
		}
		if req.Status != nil {
			prev := todos[i].Status
			todos[i].Status = *req.Status
			if prev != *req.Status {
				b.recordActivity(model.ActionStatusChanged, model.EntityTodo, listID, todoID, todos[i].Name)
			}
		}
		if req.Priority != nil {
			todos[i].Priority = *req.Priority
		}
		if req.TagIDs != nil {
			todos[i].Tags = b.tagsByID(req.TagIDs)
		}
		now := time.Now()
		todos[i].UpdatedAt = &now
		writeJSON(w, http.StatusOK, todos[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Todo not found")
}

func (b *Backend) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	listID := pathID(r, "id")
	todoID := pathID(r, "tid")

	b.mu.Lock()
	defer b.mu.Unlock()
	todos := b.todos[listID]
	for i := range todos {
		if todos[i].ID == todoID {
			b.recordActivity(model.ActionDeleted, model.EntityTodo, listID, todoID, todos[i].Name)
			b.todos[listID] = append(todos[:i:i], todos[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Todo not found")
}

func (b *Backend) handleTags(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tags := b.tags
	if tags == nil {
		tags = []model.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (b *Backend) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req api.TagCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	tag := model.Tag{ID: b.nextID, Name: req.Name, Color: req.Color}
	b.nextID++
	b.tags = append(b.tags, tag)
	writeJSON(w, http.StatusCreated, tag)
}

func (b *Backend) handleActivity(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Newest first.
	out := make([]model.Activity, len(b.activities))
	for i, a := range b.activities {
		out[len(b.activities)-1-i] = a
	}

	if raw := r.PathValue("id"); raw != "" {
		listID, _ := strconv.ParseInt(raw, 10, 64)
		scoped := out[:0]
		for _, a := range out {
			if a.ListID != nil && *a.ListID == listID {
				scoped = append(scoped, a)
			}
		}
		out = scoped
	}

	writeJSON(w, http.StatusOK, api.ActivityFeed{Total: len(out), Items: out})
}

// recordActivity appends a feed entry. Callers hold b.mu.
func (b *Backend) recordActivity(
	action model.ActionType,
	entity model.EntityType,
	listID, entityID int64,
	name string,
) {
	lid := listID
	eid := entityID
	b.activities = append(b.activities, model.Activity{
		ID:        int64(len(b.activities) + 1),
		UserID:    b.user.ID,
		ListID:    &lid,
		Action:    action,
		Entity:    entity,
		EntityID:  &eid,
		Details:   map[string]any{"name": name},
		CreatedAt: time.Now(),
		User:      &b.user,
	})
}

// tagsByID resolves tag ids against the seeded tags. Callers hold b.mu.
func (b *Backend) tagsByID(ids []int64) []model.Tag {
	var out []model.Tag
	for _, id := range ids {
		for _, tag := range b.tags {
			if tag.ID == id {
				out = append(out, tag)
			}
		}
	}
	return out
}

func pathID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.PathValue(key), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
