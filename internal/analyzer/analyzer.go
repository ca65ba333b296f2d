package analyzer

import (
	"regexp"
	"strings"
	"time"

	"github.com/lexaid-ng/lexaid/internal/knowledge"
)

// factIndicators marks a sentence as a factual statement when any of these
// appear in it (case-insensitive). Copula verbs plus incident nouns.
var factIndicators = []string{
	"was", "were", "is", "are", "had", "have", "has",
	"police", "officer", "searched", "arrested", "seized",
	"slapped", "hit", "beaten", "force", "violence",
	"phone", "laptop", "device", "property",
}

// timePatterns are the ordered phase-indicator groups: opening, middle and
// closing markers. First match classifies the sentence as a timeline event.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(initially|first|at first|in the beginning)`),
	regexp.MustCompile(`(?i)(then|after|later|subsequently|next)`),
	regexp.MustCompile(`(?i)(finally|eventually|in the end)`),
}

// eventKeywords maps incident categories to the keywords that identify them
// in a timeline sentence. Scanned in knowledge.IncidentScanOrder; the first
// category with a hit wins.
var eventKeywords = map[knowledge.IncidentType][]string{
	knowledge.IncidentSearch:  {"search", "searched", "looking through"},
	knowledge.IncidentArrest:  {"arrest", "arrested", "detained", "taken into custody"},
	knowledge.IncidentSeizure: {"seize", "seized", "confiscated", "taken"},
	knowledge.IncidentAssault: {"slap", "slapped", "hit", "beaten", "assault", "force"},
}

// legalKeywords are the legal-concept phrases checked by substring containment.
var legalKeywords = []string{
	"right to privacy", "right to property", "right to dignity",
	"unlawful search", "unlawful arrest", "excessive force",
	"police brutality", "human rights violation", "constitutional rights",
	"search warrant", "due process", "legal procedure",
}

// evidenceKeywords are the evidence nouns checked by substring containment.
var evidenceKeywords = []string{
	"phone", "laptop", "device", "property", "belongings",
	"witness", "witnesses", "camera", "recording", "video",
	"document", "paper", "receipt", "medical report",
}

var negativeWords = []string{"slapped", "hit", "beaten", "force", "violence", "unlawful", "wrong", "bad"}

var urgentWords = []string{"immediately", "urgent", "emergency", "now", "right away", "asap"}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// ExtractContext mines a free-text message for facts, timeline events,
// legal issues, evidence and party roles. Pure and deterministic apart
// from the timeline event dates, which are stamped with the current time
// (dates are not parsed from the text).
func ExtractContext(message string) ContextUpdate {
	return ContextUpdate{
		NewFacts:        extractFacts(message),
		TimelineUpdates: extractTimelineEvents(message),
		LegalIssues:     extractLegalIssues(message),
		Evidence:        extractEvidence(message),
		Parties:         extractParties(message),
	}
}

func splitSentences(message string) []string {
	var sentences []string
	for _, s := range sentenceSplit.Split(message, -1) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

func extractFacts(message string) []string {
	var facts []string
	for _, sentence := range splitSentences(message) {
		if isFactualStatement(sentence) {
			facts = append(facts, sentence)
		}
	}
	return facts
}

func isFactualStatement(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, indicator := range factIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func extractTimelineEvents(message string) []TimelineEvent {
	var events []TimelineEvent
	for _, sentence := range splitSentences(message) {
		for _, pattern := range timePatterns {
			if pattern.MatchString(sentence) {
				events = append(events, TimelineEvent{
					Date:    time.Now(),
					Event:   classifyEvent(sentence),
					Details: sentence,
				})
				break
			}
		}
	}
	return events
}

func classifyEvent(sentence string) knowledge.IncidentType {
	lower := strings.ToLower(sentence)
	for _, incident := range knowledge.IncidentScanOrder {
		for _, keyword := range eventKeywords[incident] {
			if strings.Contains(lower, keyword) {
				return incident
			}
		}
	}
	return knowledge.IncidentOther
}

func extractLegalIssues(message string) []string {
	lower := strings.ToLower(message)
	var issues []string
	for _, keyword := range legalKeywords {
		if strings.Contains(lower, keyword) {
			issues = append(issues, keyword)
		}
	}
	return issues
}

func extractEvidence(message string) []string {
	lower := strings.ToLower(message)
	var evidence []string
	for _, keyword := range evidenceKeywords {
		if strings.Contains(lower, keyword) {
			evidence = append(evidence, keyword)
		}
	}
	return evidence
}

func extractParties(message string) Parties {
	lower := strings.ToLower(message)
	var parties Parties

	// The victim is usually the user.
	if strings.Contains(lower, "my") || strings.Contains(lower, "i was") || strings.Contains(lower, "me") {
		parties.Victim = "User"
	}

	if strings.Contains(lower, "police") || strings.Contains(lower, "officer") {
		parties.Perpetrators = append(parties.Perpetrators, "Police Officer(s)")
	}

	if strings.Contains(lower, "witness") || strings.Contains(lower, "saw") || strings.Contains(lower, "observed") {
		parties.Witnesses = append(parties.Witnesses, "Witness(es)")
	}

	return parties
}

// AnalyzeSentiment counts negative-word and urgency-word hits. Sentiment is
// never "positive": any negative hit makes it negative, otherwise neutral.
func AnalyzeSentiment(message string) Sentiment {
	lower := strings.ToLower(message)

	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negativeCount++
		}
	}

	urgentCount := 0
	for _, word := range urgentWords {
		if strings.Contains(lower, word) {
			urgentCount++
		}
	}

	result := Sentiment{Sentiment: "neutral", Urgency: "low"}
	if negativeCount > 0 {
		result.Sentiment = "negative"
	}
	switch {
	case urgentCount >= 2:
		result.Urgency = "high"
	case urgentCount == 1:
		result.Urgency = "medium"
	}

	return result
}

// HasNewInformation reports whether the message carries any extractable
// facts, timeline events or legal issues.
func HasNewInformation(message string) bool {
	return len(extractFacts(message)) > 0 ||
		len(extractTimelineEvents(message)) > 0 ||
		len(extractLegalIssues(message)) > 0
}
