// Package qa applies heuristic quality scoring to assistant turns and
// persists the results for the metrics endpoint.
package qa

import (
	"regexp"
	"strings"
	"time"

	"github.com/lexaid-ng/lexaid/internal/conversation"
)

// Input is one completed turn to be scored.
type Input struct {
	SessionID        string
	MessageID        string
	UserContent      string
	AssistantContent string
	ApplicableLaws   []string
	Stage            conversation.Stage
}

// Result holds the heuristic scores for one assistant turn. Created once,
// persisted append-only, never mutated.
type Result struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"sessionId"`
	MessageID           string    `json:"messageId"`
	CoherenceScore      float64   `json:"coherenceScore"`
	LegalRelevanceScore float64   `json:"legalRelevanceScore"`
	ContextUsageScore   float64   `json:"contextUsageScore"`
	Flags               []string  `json:"flags"`
	CreatedAt           time.Time `json:"createdAt"`
}

var (
	nigeriaPattern    = regexp.MustCompile(`(?i)nigeria|nigerian|constitution of nigeria|police act`)
	actionablePattern = regexp.MustCompile(`(?i)next steps|you should|consider|report|file|seek|consult|document`)
)

const (
	minAnswerLength = 200
	maxAnswerLength = 2200
)

// Evaluate scores an assistant turn. Pure computation over the given
// strings; all scores land in [0,1].
func Evaluate(in Input) Result {
	lower := strings.ToLower(in.AssistantContent)

	mentionsLaw := false
	for _, law := range in.ApplicableLaws {
		prefix := strings.ToLower(law)
		if len(prefix) > 20 {
			prefix = prefix[:20]
		}
		if prefix != "" && strings.Contains(lower, prefix) {
			mentionsLaw = true
			break
		}
	}

	mentionsNigeria := nigeriaPattern.MatchString(in.AssistantContent)
	hasActionables := actionablePattern.MatchString(in.AssistantContent)

	userPrefix := strings.TrimSpace(in.UserContent)
	if len(userPrefix) > 20 {
		userPrefix = userPrefix[:20]
	}
	// An empty user prefix counts as a repeat, matching prefix semantics.
	repeatsQuestion := strings.HasPrefix(strings.TrimSpace(in.AssistantContent), userPrefix)

	lengthOk := len(in.AssistantContent) >= minAnswerLength && len(in.AssistantContent) <= maxAnswerLength

	coherence := float64(countTrue(lengthOk, hasActionables, !repeatsQuestion)) / 3
	legalRelevance := float64(countTrue(mentionsNigeria, mentionsLaw)) / 2
	contextUsage := 0.6
	if in.Stage == conversation.StageLegalAnalysis || in.Stage == conversation.StageNextSteps {
		contextUsage = 1.0
	}

	var flags []string
	if !hasActionables {
		flags = append(flags, "no_actionables")
	}
	if !mentionsNigeria {
		flags = append(flags, "no_nigeria_context")
	}
	if !mentionsLaw {
		flags = append(flags, "no_citations")
	}

	return Result{
		ID:                  "qa_" + in.MessageID,
		SessionID:           in.SessionID,
		MessageID:           in.MessageID,
		CoherenceScore:      coherence,
		LegalRelevanceScore: legalRelevance,
		ContextUsageScore:   contextUsage,
		Flags:               flags,
		CreatedAt:           time.Now().UTC(),
	}
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
