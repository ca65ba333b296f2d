package upload

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the upload API route. The caller identifies the
// uploading user with the X-User-ID header.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/upload", handleUpload(svc))
}

func handleUpload(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		// Bound the whole request slightly above the file limit plus form
		// overhead so a file just over the cap still reaches the size
		// check and gets its specific 400, while grossly oversized bodies
		// are cut off here instead of being spooled to disk in full.
		r.Body = http.MaxBytesReader(w, r.Body, svc.maxSize+1<<20)
		if err := r.ParseMultipartForm(svc.maxSize + 1<<20); err != nil {
			http.Error(w, `{"error":"invalid multipart request"}`, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"No file provided"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			log.Printf("reading upload: %v", err)
			http.Error(w, `{"error":"Failed to upload file"}`, http.StatusInternalServerError)
			return
		}

		mimeType := header.Header.Get("Content-Type")

		result, err := svc.Process(r.Context(), userID, header.Filename, mimeType, content)
		if err != nil {
			var quotaErr *QuotaError
			var validationErr *ValidationError
			switch {
			case errors.As(err, &quotaErr):
				writeError(w, quotaErr.Error(), http.StatusTooManyRequests)
			case errors.As(err, &validationErr):
				writeError(w, validationErr.Error(), http.StatusBadRequest)
			default:
				log.Printf("processing upload: %v", err)
				http.Error(w, `{"error":"Failed to upload file"}`, http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
