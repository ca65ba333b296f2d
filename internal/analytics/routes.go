package analytics

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the analytics API routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/analytics/events", handleListEvents(store))
}

func handleListEvents(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := QueryFilter{
			Type:      EventType(r.URL.Query().Get("type")),
			SessionID: r.URL.Query().Get("session_id"),
			UserID:    r.URL.Query().Get("user_id"),
			Limit:     100,
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				http.Error(w, `{"error":"invalid limit"}`, http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		events, err := store.Query(r.Context(), filter)
		if err != nil {
			log.Printf("querying analytics events: %v", err)
			http.Error(w, `{"error":"failed to fetch events"}`, http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []Event{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(events)
	}
}
