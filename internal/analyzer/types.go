package analyzer

import (
	"time"

	"github.com/lexaid-ng/lexaid/internal/knowledge"
)

// TimelineEvent is a single dated event extracted from a message.
type TimelineEvent struct {
	Date    time.Time              `json:"date"`
	Event   knowledge.IncidentType `json:"event"`
	Details string                 `json:"details"`
}

// Parties holds the coarse party roles detected in a message. These are
// presence flags, not named-entity extraction.
type Parties struct {
	Victim       string   `json:"victim,omitempty"`
	Perpetrators []string `json:"perpetrators,omitempty"`
	Witnesses    []string `json:"witnesses,omitempty"`
}

// ContextUpdate is the structured context mined from one user message.
// It is consumed exactly once by the conversation manager and not persisted.
type ContextUpdate struct {
	NewFacts        []string        `json:"newFacts"`
	TimelineUpdates []TimelineEvent `json:"timelineUpdates"`
	LegalIssues     []string        `json:"legalIssues"`
	Evidence        []string        `json:"evidence"`
	Parties         Parties         `json:"parties"`
}

// Sentiment is the result of the message sentiment/urgency heuristic.
type Sentiment struct {
	Sentiment string `json:"sentiment"` // "negative" or "neutral"
	Urgency   string `json:"urgency"`   // "low", "medium" or "high"
}
