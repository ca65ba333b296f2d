package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lexaid-ng/lexaid/internal/db"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestRecordAndQuery(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	events := []Event{
		{Type: EventChatSend, SessionID: "s1", UserID: "u1", Detail: map[string]string{"len": "42"}},
		{Type: EventChatSend, SessionID: "s2", UserID: "u1"},
		{Type: EventUpload, UserID: "u2", Detail: map[string]string{"file": "brief.pdf"}},
	}
	for i, e := range events {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record[%d]: %v", i, err)
		}
	}

	all, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	sends, err := store.Query(ctx, QueryFilter{Type: EventChatSend})
	if err != nil {
		t.Fatalf("Query sends: %v", err)
	}
	if len(sends) != 2 {
		t.Fatalf("expected 2 chat_send events, got %d", len(sends))
	}

	bySession, err := store.Query(ctx, QueryFilter{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Query by session: %v", err)
	}
	if len(bySession) != 1 || bySession[0].Detail["len"] != "42" {
		t.Fatalf("unexpected session events: %+v", bySession)
	}
}

func TestRoutes_ListEvents(t *testing.T) {
	store := testStore(t)
	if err := store.Record(context.Background(), Event{Type: EventUpload, UserID: "u1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/analytics/events?type=upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var events []Event
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(events) != 1 || events[0].Type != EventUpload {
		t.Fatalf("unexpected events: %+v", events)
	}

	req = httptest.NewRequest("GET", "/api/analytics/events?limit=bogus", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}
}
