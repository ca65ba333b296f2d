// Package analytics records lightweight usage events (chat sends, uploads)
// for operational visibility.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexaid-ng/lexaid/internal/db"
)

// EventType identifies a kind of usage event.
type EventType string

const (
	EventChatSend EventType = "chat_send"
	EventUpload   EventType = "upload"
)

// Event is one recorded usage event. Detail holds event-specific fields.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	SessionID string            `json:"sessionId,omitempty"`
	UserID    string            `json:"userId,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Store persists analytics events.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a new event. If event.ID is empty a UUID is generated.
func (s *Store) Record(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	detail := []byte("{}")
	if len(event.Detail) > 0 {
		var err error
		if detail, err = json.Marshal(event.Detail); err != nil {
			return fmt.Errorf("marshalling event detail: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_events (id, event_type, session_id, user_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), event.SessionID, event.UserID, string(detail), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting analytics event: %w", err)
	}
	return nil
}

// QueryFilter controls which events Query returns.
type QueryFilter struct {
	Type      EventType
	SessionID string
	UserID    string
	Since     *time.Time
	Limit     int
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Type != "" {
		clauses = append(clauses, "event_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := "SELECT id, event_type, session_id, user_id, detail, created_at FROM analytics_events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying analytics events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var eventType, detail string
		if err := rows.Scan(&e.ID, &eventType, &e.SessionID, &e.UserID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analytics event: %w", err)
		}
		e.Type = EventType(eventType)
		if detail != "{}" && detail != "" {
			if err := json.Unmarshal([]byte(detail), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshalling event detail: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
