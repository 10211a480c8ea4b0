// Package http provides the HTTP server infrastructure.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// EmptyMessageReply is sent for blank or unreadable chat requests.
const EmptyMessageReply = "Please enter a valid question."

// ChatService is the engine the server exposes.
type ChatService interface {
	Respond(ctx context.Context, query string) *entities.ChatResponse
	History() []entities.ConversationTurn
	MedicinesLoaded() int
}

// Server is the HTTP server for the chat API.
type Server struct {
	chat   ChatService
	addr   string
	logger *slog.Logger
	now    func() time.Time
}

// NewServer creates a new HTTP server.
func NewServer(chat ChatService, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		chat:   chat,
		addr:   addr,
		logger: logger.With("component", "http"),
		now:    time.Now,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Get("/api/history", s.handleHistory)

	return r
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("server starting", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatReply struct {
	Response string `json:"response"`
}

// handleChat answers one message. Engine failures never surface as errors.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatReply{Response: EmptyMessageReply})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusOK, chatReply{Response: EmptyMessageReply})
		return
	}

	resp := s.chat.Respond(r.Context(), message)
	s.logger.Debug("chat answered", "outcome", resp.Outcome, "intent", resp.Intent)
	writeJSON(w, http.StatusOK, chatReply{Response: resp.Answer})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"medicines_loaded": s.chat.MedicinesLoaded(),
		"timestamp":        s.now().Format(time.RFC3339),
	})
}

// handleHistory lists the conversation log.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	turns := s.chat.History()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(turns),
		"turns": turns,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
