package knowledge

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the law catalog API route.
func RegisterRoutes(r chi.Router) {
	r.Get("/api/laws", handleListLaws())
}

// handleListLaws serves the catalog for an incident type, optionally
// filtered by comma-separated tags.
func handleListLaws() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incident := IncidentType(r.URL.Query().Get("incident"))
		if incident == "" {
			http.Error(w, `{"error":"incident is required"}`, http.StatusBadRequest)
			return
		}
		if _, ok := catalog[incident]; !ok {
			http.Error(w, `{"error":"unknown incident type"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if rawTags := r.URL.Query().Get("tags"); rawTags != "" {
			var tags []string
			for _, t := range strings.Split(rawTags, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
			titles := SearchLawsByTags(incident, tags)
			if titles == nil {
				titles = []string{}
			}
			json.NewEncoder(w).Encode(map[string]any{"incident": incident, "laws": titles})
			return
		}

		entries := Entries(incident)
		if entries == nil {
			entries = []LawEntry{}
		}
		json.NewEncoder(w).Encode(map[string]any{"incident": incident, "laws": entries})
	}
}
