package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexaid-ng/lexaid/internal/conversation"
	"github.com/lexaid-ng/lexaid/internal/db"
	"github.com/lexaid-ng/lexaid/internal/references"
)

// Store persists chat sessions and messages.
type Store struct {
	db *db.DB
}

// NewStore creates a new chat store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Session is a persisted chat session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateSession creates a new chat session.
func (s *Store) CreateSession(ctx context.Context, userID, title string) (*Session, error) {
	if userID == "" {
		userID = "anonymous"
	}
	if title == "" {
		title = "New Chat"
	}
	now := time.Now().UTC()
	sess := Session{
		ID:        "session_" + uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Title, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &sess, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM chat_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SaveMessage appends a message to a session, creating the session row on
// first use so history arriving for ad hoc session IDs is not rejected.
func (s *Store) SaveMessage(ctx context.Context, sessionID string, msg conversation.Message) error {
	lawRefs, caseRefs := []byte("[]"), []byte("[]")
	if msg.References != nil {
		var err error
		if len(msg.References.Laws) > 0 {
			if lawRefs, err = json.Marshal(msg.References.Laws); err != nil {
				return fmt.Errorf("marshalling law refs: %w", err)
			}
		}
		if len(msg.References.Cases) > 0 {
			if caseRefs, err = json.Marshal(msg.References.Cases); err != nil {
				return fmt.Errorf("marshalling case refs: %w", err)
			}
		}
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO chat_sessions (id, user_id, title, created_at, updated_at) VALUES (?, 'anonymous', 'Legal Consultation', ?, ?)`,
		sessionID, now, now,
	)
	if err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}

	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, law_refs, case_refs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, sessionID, string(msg.Role), msg.Content, string(lawRefs), string(caseRefs), timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	// Touch the session timestamp.
	s.db.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, timestamp, sessionID)

	return nil
}

// LoadMessages returns up to limit messages for a session in chronological
// order.
func (s *Store) LoadMessages(ctx context.Context, sessionID string, limit int) ([]conversation.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, law_refs, case_refs, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC, rowid ASC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []conversation.Message
	for rows.Next() {
		var m conversation.Message
		var role, lawRefs, caseRefs string
		if err := rows.Scan(&m.ID, &role, &m.Content, &lawRefs, &caseRefs, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = conversation.Role(role)

		var refs references.References
		if err := json.Unmarshal([]byte(lawRefs), &refs.Laws); err != nil {
			return nil, fmt.Errorf("unmarshalling law refs: %w", err)
		}
		if err := json.Unmarshal([]byte(caseRefs), &refs.Cases); err != nil {
			return nil, fmt.Errorf("unmarshalling case refs: %w", err)
		}
		if len(refs.Laws) > 0 || len(refs.Cases) > 0 {
			m.References = &refs
		}

		messages = append(messages, m)
	}
	return messages, rows.Err()
}
