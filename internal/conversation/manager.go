// Package conversation tracks per-session consultation state: the
// accumulated case facts, the applicable laws and the consultation stage.
package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lexaid-ng/lexaid/internal/analyzer"
	"github.com/lexaid-ng/lexaid/internal/knowledge"
)

// incidentKeywords reclassifies the incident type from newly extracted
// facts. Scanned in knowledge.IncidentScanOrder; the first category with a
// keyword hit in any new fact wins for the whole update.
var incidentKeywords = map[knowledge.IncidentType][]string{
	knowledge.IncidentSearch:  {"search", "searched", "phone", "device", "laptop"},
	knowledge.IncidentArrest:  {"arrest", "arrested", "detained", "custody"},
	knowledge.IncidentSeizure: {"seized", "seizure", "confiscated", "taken"},
	knowledge.IncidentAssault: {"slapped", "hit", "beaten", "assault", "force", "violence"},
}

// intentCatalog is the fixed intent keyword table. Iteration order matters:
// ties keep the first-seen maximum.
var intentCatalog = []struct {
	intent   IntentType
	keywords []string
}{
	{IntentSeekingAdvice, []string{"what should", "what can", "how do", "advice", "help"}},
	{IntentProvidingUpdate, []string{"happened", "occurred", "then", "after", "later"}},
	{IntentAskingClarification, []string{"what does", "mean", "explain", "clarify"}},
	{IntentSeekingAction, []string{"file", "report", "sue", "complain", "take action"}},
}

// sessionEntry pairs a state with its own lock so unrelated sessions never
// contend and same-session updates are serialized.
type sessionEntry struct {
	mu         sync.Mutex
	state      *State
	lastAccess time.Time
}

// Manager owns all in-memory conversation state, keyed by session ID.
type Manager struct {
	mu           sync.Mutex
	sessions     map[string]*sessionEntry
	ttl          time.Duration
	jurisdiction string
}

// NewManager creates a manager whose sessions expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewManager(ttl time.Duration, jurisdiction string) *Manager {
	if jurisdiction == "" {
		jurisdiction = "Nigeria"
	}
	return &Manager{
		sessions:     make(map[string]*sessionEntry),
		ttl:          ttl,
		jurisdiction: jurisdiction,
	}
}

// entry returns the live session entry, creating it if absent and dropping
// it first if it has expired.
func (m *Manager) entry(sessionID, userID string) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if ok && m.expired(e) {
		delete(m.sessions, sessionID)
		ok = false
	}
	if !ok {
		e = &sessionEntry{state: m.newState(sessionID, userID)}
		m.sessions[sessionID] = e
	}
	e.lastAccess = time.Now()
	return e
}

func (m *Manager) expired(e *sessionEntry) bool {
	return m.ttl > 0 && time.Since(e.lastAccess) > m.ttl
}

func (m *Manager) newState(sessionID, userID string) *State {
	return &State{
		SessionID: sessionID,
		UserID:    userID,
		CurrentCase: Case{
			IncidentType: knowledge.IncidentOther,
			Jurisdiction: m.jurisdiction,
		},
		LegalContext: LegalContext{
			Jurisdiction: m.jurisdiction,
			CurrentStage: StageFactGathering,
		},
		UserIntent: Intent{Type: IntentSeekingAdvice, Confidence: 0.5},
	}
}

// GetOrCreateState returns a snapshot of the session's state, initializing
// an empty one on first reference.
func (m *Manager) GetOrCreateState(sessionID, userID string) *State {
	e := m.entry(sessionID, userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// UpdateState appends the message to the session history, folds the context
// update into the case, re-derives the applicable laws and the conversation
// stage, and returns a snapshot of the updated state. Updates for the same
// session are serialized.
func (m *Manager) UpdateState(sessionID string, msg Message, update analyzer.ContextUpdate) *State {
	userID := "assistant"
	if msg.Role == RoleUser {
		userID = "user"
	}
	e := m.entry(sessionID, userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.state
	state.ConversationHistory = append(state.ConversationHistory, msg)

	if len(update.NewFacts) > 0 {
		if incident, ok := classifyIncident(update.NewFacts); ok {
			state.CurrentCase.IncidentType = incident
		}
	}

	state.CurrentCase.Timeline = append(state.CurrentCase.Timeline, update.TimelineUpdates...)
	state.CurrentCase.LegalIssues = append(state.CurrentCase.LegalIssues, update.LegalIssues...)
	state.CurrentCase.Evidence = append(state.CurrentCase.Evidence, update.Evidence...)

	if update.Parties.Victim != "" {
		state.CurrentCase.Parties.Victim = update.Parties.Victim
	}
	state.CurrentCase.Parties.Perpetrators = append(state.CurrentCase.Parties.Perpetrators, update.Parties.Perpetrators...)
	state.CurrentCase.Parties.Witnesses = append(state.CurrentCase.Parties.Witnesses, update.Parties.Witnesses...)

	m.updateLegalContext(state)
	m.updateStage(state)

	return state.clone()
}

// classifyIncident scans the incident keyword table in fixed order and
// returns the first category any new fact matches.
func classifyIncident(facts []string) (knowledge.IncidentType, bool) {
	for _, incident := range knowledge.IncidentScanOrder {
		for _, keyword := range incidentKeywords[incident] {
			for _, fact := range facts {
				if strings.Contains(strings.ToLower(fact), keyword) {
					return incident, true
				}
			}
		}
	}
	return knowledge.IncidentOther, false
}

// updateLegalContext unions the knowledge base titles for the current
// incident type into the applicable laws, deduplicated in first-seen order.
func (m *Manager) updateLegalContext(state *State) {
	seen := make(map[string]bool, len(state.LegalContext.ApplicableLaws))
	for _, law := range state.LegalContext.ApplicableLaws {
		seen[law] = true
	}
	for _, title := range knowledge.ApplicableLawTitles(state.CurrentCase.IncidentType) {
		if !seen[title] {
			seen[title] = true
			state.LegalContext.ApplicableLaws = append(state.LegalContext.ApplicableLaws, title)
		}
	}
}

// updateStage advances the consultation stage. The fall-through from
// legal_analysis to next_steps without re-checking the legal_analysis
// criteria is deliberate policy.
func (m *Manager) updateStage(state *State) {
	hasTimeline := len(state.CurrentCase.Timeline) > 0
	hasLegalIssues := len(state.CurrentCase.LegalIssues) > 0

	switch {
	case len(state.ConversationHistory) <= 2:
		state.LegalContext.CurrentStage = StageFactGathering
	case hasTimeline && hasLegalIssues:
		state.LegalContext.CurrentStage = StageLegalAnalysis
	case state.LegalContext.CurrentStage == StageLegalAnalysis:
		state.LegalContext.CurrentStage = StageNextSteps
	}
}

// Summary renders the fixed-format case summary, or "No conversation found"
// for an unknown (or expired) session.
func (m *Manager) Summary(sessionID string) string {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if ok && m.expired(e) {
		delete(m.sessions, sessionID)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return "No conversation found"
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.state

	return strings.TrimSpace(fmt.Sprintf(`Case Summary:
- Incident Type: %s
- Timeline Events: %d
- Legal Issues: %s
- Current Stage: %s
- Applicable Laws: %d`,
		state.CurrentCase.IncidentType,
		len(state.CurrentCase.Timeline),
		strings.Join(state.CurrentCase.LegalIssues, ", "),
		state.LegalContext.CurrentStage,
		len(state.LegalContext.ApplicableLaws)))
}

// AnalyzeIntent scores the message against each intent's keyword list.
// Confidence is hits divided by list size; the strictly greatest score
// wins, defaulting to seeking_advice when nothing scores above zero.
func AnalyzeIntent(message string) Intent {
	lower := strings.ToLower(message)

	best := Intent{Type: IntentSeekingAdvice, Confidence: 0}
	for _, cat := range intentCatalog {
		hits := 0
		for _, keyword := range cat.keywords {
			if strings.Contains(lower, keyword) {
				hits++
			}
		}
		confidence := float64(hits) / float64(len(cat.keywords))
		if confidence > best.Confidence {
			best = Intent{Type: cat.intent, Confidence: confidence}
		}
	}
	return best
}

// GenerateResponseStrategy picks a response shape from stage-then-intent
// precedence: fact gathering always gets initial advice, otherwise the
// intent maps one-to-one onto a strategy.
func (m *Manager) GenerateResponseStrategy(state *State, userMessage string) ResponseStrategy {
	intent := AnalyzeIntent(userMessage)

	var previousAdvice []string
	for _, msg := range state.ConversationHistory {
		if msg.Role == RoleAssistant {
			previousAdvice = append(previousAdvice, msg.Content)
		}
	}

	strategy := ResponseStrategy{Type: StrategyInitialAdvice}
	strategy.Context.PreviousAdvice = previousAdvice
	strategy.Context.NewInformation = []string{}
	strategy.Context.LegalProgress = state.LegalContext.CurrentStage

	if state.LegalContext.CurrentStage != StageFactGathering {
		switch intent.Type {
		case IntentProvidingUpdate:
			strategy.Type = StrategyFollowUp
		case IntentAskingClarification:
			strategy.Type = StrategyClarification
		case IntentSeekingAction:
			strategy.Type = StrategyLegalAction
		}
	}

	return strategy
}

// Sweep evicts sessions idle past the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
