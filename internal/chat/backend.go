package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lexaid-ng/lexaid/internal/references"
)

// Backend is a client for the retrieval backend. All methods degrade
// gracefully: a backend that is down or misbehaving never fails a chat turn.
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates a client for the retrieval backend at baseURL.
func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// BackendAnswer is a complete answer produced by the retrieval backend.
type BackendAnswer struct {
	ID         string
	Content    string
	References *references.References
}

type backendSendRequest struct {
	Content string `json:"content"`
	Country string `json:"country"`
}

type backendSendResponse struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	References *struct {
		Laws  []string `json:"laws"`
		Cases []string `json:"cases"`
	} `json:"references"`
}

// Send asks the retrieval backend to answer the question. It returns nil,
// nil whenever the backend cannot produce a usable answer so the caller
// falls through to the model.
func (b *Backend) Send(ctx context.Context, content, country string) (*BackendAnswer, error) {
	if b == nil || b.baseURL == "" {
		return nil, nil
	}

	body, err := json.Marshal(backendSendRequest{Content: content, Country: country})
	if err != nil {
		return nil, fmt.Errorf("encoding backend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/chat/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var decoded backendSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil
	}
	if decoded.Content == "" {
		return nil, nil
	}

	answer := &BackendAnswer{ID: decoded.ID, Content: decoded.Content}
	if decoded.References != nil {
		answer.References = &references.References{
			Laws:  decoded.References.Laws,
			Cases: decoded.References.Cases,
		}
	}
	return answer, nil
}
