package conversation

import (
	"time"

	"github.com/lexaid-ng/lexaid/internal/analyzer"
	"github.com/lexaid-ng/lexaid/internal/knowledge"
	"github.com/lexaid-ng/lexaid/internal/references"
)

// Role identifies a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Immutable once created.
type Message struct {
	ID         string                 `json:"id"`
	Role       Role                   `json:"role"`
	Content    string                 `json:"content"`
	Timestamp  time.Time              `json:"timestamp"`
	References *references.References `json:"references,omitempty"`
}

// Stage is the current phase of a legal consultation.
type Stage string

const (
	StageFactGathering Stage = "fact_gathering"
	StageLegalAnalysis Stage = "legal_analysis"
	StageNextSteps     Stage = "next_steps"
	StageFollowUp      Stage = "follow_up"
)

// IntentType classifies what the user is trying to do with a message.
type IntentType string

const (
	IntentSeekingAdvice       IntentType = "seeking_advice"
	IntentProvidingUpdate     IntentType = "providing_update"
	IntentAskingClarification IntentType = "asking_clarification"
	IntentSeekingAction       IntentType = "seeking_action"
)

// Intent is a detected user intent with its keyword-match confidence.
type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
}

// StrategyType selects the shape of the assistant's next response.
type StrategyType string

const (
	StrategyInitialAdvice StrategyType = "initial_advice"
	StrategyFollowUp      StrategyType = "follow_up"
	StrategyClarification StrategyType = "clarification"
	StrategyLegalAction   StrategyType = "legal_action"
)

// ResponseStrategy describes how the assistant should respond given the
// conversation stage and the user's intent.
type ResponseStrategy struct {
	Type    StrategyType `json:"type"`
	Context struct {
		PreviousAdvice []string `json:"previousAdvice"`
		NewInformation []string `json:"newInformation"`
		LegalProgress  Stage    `json:"legalProgress"`
	} `json:"context"`
}

// Case holds the accumulated facts of the user's matter.
type Case struct {
	IncidentType knowledge.IncidentType   `json:"incidentType"`
	Timeline     []analyzer.TimelineEvent `json:"timeline"`
	LegalIssues  []string                 `json:"legalIssues"`
	Evidence     []string                 `json:"evidence"`
	Parties      analyzer.Parties         `json:"parties"`
	Location     string                   `json:"location"`
	Jurisdiction string                   `json:"jurisdiction"`
}

// LegalContext holds the derived legal view of a conversation.
type LegalContext struct {
	ApplicableLaws []string `json:"applicableLaws"`
	Precedents     []string `json:"precedents"`
	Jurisdiction   string   `json:"jurisdiction"`
	CurrentStage   Stage    `json:"currentStage"`
}

// State is the full per-session conversation state. It lives in memory
// only; process restart loses it.
type State struct {
	SessionID           string       `json:"sessionId"`
	UserID              string       `json:"userId"`
	CurrentCase         Case         `json:"currentCase"`
	ConversationHistory []Message    `json:"conversationHistory"`
	LegalContext        LegalContext `json:"legalContext"`
	UserIntent          Intent       `json:"userIntent"`
}

// clone returns a copy of the state safe to hand to callers while the
// original keeps being mutated under the session lock.
func (s *State) clone() *State {
	out := *s
	out.CurrentCase.Timeline = append([]analyzer.TimelineEvent(nil), s.CurrentCase.Timeline...)
	out.CurrentCase.LegalIssues = append([]string(nil), s.CurrentCase.LegalIssues...)
	out.CurrentCase.Evidence = append([]string(nil), s.CurrentCase.Evidence...)
	out.CurrentCase.Parties.Perpetrators = append([]string(nil), s.CurrentCase.Parties.Perpetrators...)
	out.CurrentCase.Parties.Witnesses = append([]string(nil), s.CurrentCase.Parties.Witnesses...)
	out.ConversationHistory = append([]Message(nil), s.ConversationHistory...)
	out.LegalContext.ApplicableLaws = append([]string(nil), s.LegalContext.ApplicableLaws...)
	out.LegalContext.Precedents = append([]string(nil), s.LegalContext.Precedents...)
	return &out
}
