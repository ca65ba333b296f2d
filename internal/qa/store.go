package qa

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lexaid-ng/lexaid/internal/db"
)

// Store persists QA results.
type Store struct {
	db *db.DB
}

// NewStore creates a new QA store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// SaveResult appends a QA result.
func (s *Store) SaveResult(ctx context.Context, r Result) error {
	flags, err := json.Marshal(r.Flags)
	if err != nil {
		return fmt.Errorf("marshalling flags: %w", err)
	}
	if r.Flags == nil {
		flags = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO qa_results (id, session_id, message_id, coherence, legal_relevance, context_usage, flags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.MessageID, r.CoherenceScore, r.LegalRelevanceScore, r.ContextUsageScore, string(flags), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting qa result: %w", err)
	}
	return nil
}

// Summary holds averaged QA scores.
type Summary struct {
	Coherence float64 `json:"coherence"`
	Legal     float64 `json:"legal"`
	Context   float64 `json:"context"`
}

// LoadSummary returns averaged scores for a session, or across all sessions
// when sessionID is empty. Returns nil when no results exist.
func (s *Store) LoadSummary(ctx context.Context, sessionID string) (*Summary, error) {
	query := `SELECT AVG(coherence), AVG(legal_relevance), AVG(context_usage) FROM qa_results`
	args := []interface{}{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}

	var coherence, legal, contextUsage sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&coherence, &legal, &contextUsage)
	if err != nil {
		return nil, fmt.Errorf("querying qa summary: %w", err)
	}
	if !coherence.Valid {
		return nil, nil
	}

	return &Summary{
		Coherence: coherence.Float64,
		Legal:     legal.Float64,
		Context:   contextUsage.Float64,
	}, nil
}
