// Package references mines assistant answers for statute and case citations.
package references

import (
	"regexp"
	"strings"
)

// maxReferences caps each reference list for display.
const maxReferences = 10

// References holds the deduplicated citations found in a piece of text.
type References struct {
	Laws  []string `json:"laws"`
	Cases []string `json:"cases"`
}

// lawPatterns match Nigerian statute citations: constitutional references,
// criminal procedure/code references, evidence-act references, police-act
// references and generic "section N of the ..." references.
var lawPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(constitution of nigeria[^\n.;]*)`),
	regexp.MustCompile(`(?i)(criminal (procedure|code) act[^\n.;]*)`),
	regexp.MustCompile(`(?i)(evidence act[^\n.;]*)`),
	regexp.MustCompile(`(?i)(police act[^\n.;]*)`),
	regexp.MustCompile(`(?i)(section\s+\d+[A-Za-z\-]*\s+of\s+the\s+[^\n.;]*)`),
}

// casePatterns match "Party v. Party (citation)" and "Party v. Party" shapes.
var casePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z][A-Za-z\-\s]+\s+v\.?\s+[A-Z][A-Za-z\-\s]+\s*\([^)]*\)`),
	regexp.MustCompile(`[A-Z][A-Za-z\-\s]+\s+v\.?\s+[A-Z][A-Za-z\-\s]+`),
}

var (
	legalBasisLabel = regexp.MustCompile(`(?i)^legal basis[:\-]?`)
	multiSemicolon  = regexp.MustCompile(`;+`)
	innerWhitespace = regexp.MustCompile(`\s+`)
)

// Extract returns the law and case citations found in text, each capped at
// ten entries in first-seen order.
func Extract(text string) References {
	var rawLaws, rawCases []string

	for _, pattern := range lawPatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			rawLaws = append(rawLaws, strings.TrimSpace(m))
		}
	}
	for _, pattern := range casePatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			rawCases = append(rawCases, strings.TrimSpace(m))
		}
	}

	return References{
		Laws:  truncate(CleanAndDedupe(rawLaws)),
		Cases: truncate(CleanAndDedupe(rawCases)),
	}
}

// CleanAndDedupe normalizes raw citation fragments: splits on semicolons,
// strips a leading "legal basis:" label, drops a trailing period, discards
// fragments shorter than six characters, collapses internal whitespace and
// dedupes in first-seen order.
func CleanAndDedupe(items []string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, raw := range items {
		if raw == "" {
			continue
		}
		for _, part := range multiSemicolon.Split(raw, -1) {
			part = strings.TrimSpace(legalBasisLabel.ReplaceAllString(part, ""))
			part = strings.TrimSuffix(part, ".")
			if len(part) < 6 {
				continue
			}
			part = innerWhitespace.ReplaceAllString(part, " ")
			if !seen[part] {
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}

func truncate(items []string) []string {
	if len(items) > maxReferences {
		return items[:maxReferences]
	}
	return items
}
