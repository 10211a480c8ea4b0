package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// mockChat implements ChatService for testing
type mockChat struct {
	mu      sync.Mutex
	queries []string
	answer  string
	panics  bool
}

func (m *mockChat) Respond(ctx context.Context, query string) *entities.ChatResponse {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.panics {
		panic("engine exploded")
	}
	return &entities.ChatResponse{Answer: m.answer, Outcome: entities.OutcomeMatch}
}

func (m *mockChat) History() []entities.ConversationTurn {
	return []entities.ConversationTurn{
		{ID: "1", Role: entities.RoleUser, Content: "aspirin"},
		{ID: "2", Role: entities.RoleBot, Content: "## 💊 Aspirin"},
	}
}

func (m *mockChat) MedicinesLoaded() int { return 42 }

func postChat(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, chatReply) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var reply chatReply
	if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	return rec, reply
}

func TestServer_Chat(t *testing.T) {
	chat := &mockChat{answer: "## 💊 Aspirin 75mg Tablet"}
	h := NewServer(chat, ":0", nil).Handler()

	rec, reply := postChat(t, h, `{"message": "  What is aspirin used for?  "}`)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if reply.Response != chat.answer {
		t.Errorf("unexpected response: %q", reply.Response)
	}
	if len(chat.queries) != 1 || chat.queries[0] != "What is aspirin used for?" {
		t.Errorf("expected trimmed query, got %v", chat.queries)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestServer_ChatEmptyMessage(t *testing.T) {
	chat := &mockChat{}
	h := NewServer(chat, ":0", nil).Handler()

	rec, reply := postChat(t, h, `{"message": "   "}`)

	if rec.Code != http.StatusOK || reply.Response != EmptyMessageReply {
		t.Errorf("expected empty-message reply, got %d %q", rec.Code, reply.Response)
	}
	if len(chat.queries) != 0 {
		t.Error("engine must not run for an empty message")
	}
}

func TestServer_ChatMalformedJSON(t *testing.T) {
	chat := &mockChat{}
	h := NewServer(chat, ":0", nil).Handler()

	rec, reply := postChat(t, h, `{"message": `)

	if rec.Code != http.StatusBadRequest || reply.Response != EmptyMessageReply {
		t.Errorf("expected 400 with empty-message reply, got %d %q", rec.Code, reply.Response)
	}
}

func TestServer_ChatRecoversPanic(t *testing.T) {
	h := NewServer(&mockChat{panics: true}, ":0", nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"aspirin"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recoverer, got %d", rec.Code)
	}
}

func TestServer_Health(t *testing.T) {
	s := NewServer(&mockChat{}, ":0", nil)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body struct {
		Status          string `json:"status"`
		MedicinesLoaded int    `json:"medicines_loaded"`
		Timestamp       string `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if body.Status != "healthy" || body.MedicinesLoaded != 42 {
		t.Errorf("unexpected health: %+v", body)
	}
	if body.Timestamp != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected timestamp %q", body.Timestamp)
	}
}

func TestServer_History(t *testing.T) {
	h := NewServer(&mockChat{}, ":0", nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	var body struct {
		Count int                         `json:"count"`
		Turns []entities.ConversationTurn `json:"turns"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if body.Count != 2 || body.Turns[1].Role != entities.RoleBot {
		t.Errorf("unexpected history: %+v", body)
	}
}

func TestServer_MethodAndRoute(t *testing.T) {
	h := NewServer(&mockChat{}, ":0", nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /chat: expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/chat", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", rec.Code)
	}
}

func TestServer_StartStops(t *testing.T) {
	s := NewServer(&mockChat{}, "127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
