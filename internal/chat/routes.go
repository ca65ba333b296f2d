package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lexaid-ng/lexaid/internal/conversation"
	"github.com/lexaid-ng/lexaid/internal/qa"
)

// RegisterRoutes mounts the chat API routes.
func RegisterRoutes(r chi.Router, orch *Orchestrator, store *Store, qaStore *qa.Store, manager *conversation.Manager) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/history", handleHistory(store))
		r.Get("/metrics", handleMetrics(qaStore))
		r.Post("/send", handleSend(orch))
		r.Get("/sessions", handleListSessions(store))
		r.Post("/sessions", handleCreateSession(store))
		r.Get("/summary", handleSummary(manager))
	})
}

func sessionParam(r *http.Request) string {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = "default_session"
	}
	return sessionID
}

func handleHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := store.LoadMessages(r.Context(), sessionParam(r), 100)
		if err != nil {
			log.Printf("fetching chat history: %v", err)
			http.Error(w, `{"error":"failed to fetch chat history"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []conversation.Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

func handleMetrics(qaStore *qa.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		summary, err := qaStore.LoadSummary(r.Context(), sessionID)
		if err != nil {
			log.Printf("fetching metrics: %v", err)
			http.Error(w, `{"error":"failed to fetch metrics"}`, http.StatusInternalServerError)
			return
		}
		if summary == nil {
			summary = &qa.Summary{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

type sendRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Country   string `json:"country"`
}

type sendResponse struct {
	conversation.Message
	SessionID string `json:"sessionId"`
}

func handleSend(orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.SessionID == "" {
			req.SessionID = "default_session"
		}

		msg, err := orch.Send(r.Context(), SendRequest{
			Content:   req.Content,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			Country:   req.Country,
		})
		if err != nil {
			if errors.Is(err, ErrEmptyContent) {
				http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
				return
			}
			log.Printf("sending chat message: %v", err)
			http.Error(w, `{"error":"failed to send chat message"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sendResponse{Message: *msg, SessionID: req.SessionID})
	}
}

func handleListSessions(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := store.ListSessions(r.Context())
		if err != nil {
			log.Printf("fetching chat sessions: %v", err)
			http.Error(w, `{"error":"failed to fetch chat sessions"}`, http.StatusInternalServerError)
			return
		}
		if sessions == nil {
			// Clients expect at least one session to attach to.
			now := time.Now().UTC()
			sessions = []Session{{
				ID:        "default_session",
				UserID:    "anonymous",
				Title:     "Legal Consultation",
				CreatedAt: now,
				UpdatedAt: now,
			}}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)
	}
}

type createSessionRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

func handleCreateSession(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		sess, err := store.CreateSession(r.Context(), req.UserID, req.Title)
		if err != nil {
			log.Printf("creating chat session: %v", err)
			http.Error(w, `{"error":"failed to create chat session"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
	}
}

func handleSummary(manager *conversation.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionParam(r)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"sessionId": sessionID,
			"summary":   manager.Summary(sessionID),
		})
	}
}
