package knowledge

// IncidentType classifies the kind of police incident a conversation is about.
type IncidentType string

const (
	IncidentSearch  IncidentType = "search"
	IncidentArrest  IncidentType = "arrest"
	IncidentSeizure IncidentType = "seizure"
	IncidentAssault IncidentType = "assault"
	IncidentOther   IncidentType = "other"
)

// IncidentScanOrder is the fixed order in which incident categories are
// matched against free text. First match wins, so this order is
// behaviorally significant.
var IncidentScanOrder = []IncidentType{IncidentSearch, IncidentArrest, IncidentSeizure, IncidentAssault}

// LawEntry is a single statute reference in the catalog.
type LawEntry struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// catalog is the hand-curated mapping from incident type to statutes.
// Entries are Nigerian law; order within a category is preserved.
var catalog = map[IncidentType][]LawEntry{
	IncidentSearch: {
		{
			ID:      "const-37",
			Title:   "Constitution of Nigeria 1999 - Section 37 (Right to Privacy)",
			Summary: "Protects the privacy of citizens, including homes, correspondence, telephone conversations and telegraphic communications.",
			Tags:    []string{"privacy", "search", "phones", "devices"},
		},
		{
			ID:      "cpa-46",
			Title:   "Criminal Procedure Act - Section 46 (Search Procedures)",
			Summary: "Provides lawful procedures for conducting searches and when they may be carried out.",
			Tags:    []string{"search", "procedure", "warrant"},
		},
		{
			ID:      "evidence-44",
			Title:   "Evidence Act - Section 44 (Search Warrant Requirements)",
			Summary: "Sets out when a search warrant is required and how it should be issued.",
			Tags:    []string{"warrant", "evidence"},
		},
	},
	IncidentArrest: {
		{
			ID:      "const-35",
			Title:   "Constitution of Nigeria 1999 - Section 35 (Right to Personal Liberty)",
			Summary: "Protects against unlawful detention and sets the rights of arrested persons.",
			Tags:    []string{"arrest", "detention", "rights"},
		},
		{
			ID:      "cpa-29",
			Title:   "Criminal Procedure Act - Section 29 (Arrest Procedures)",
			Summary: "Outlines the manner of arrest and safeguards.",
			Tags:    []string{"arrest", "procedure"},
		},
	},
	IncidentSeizure: {
		{
			ID:      "const-44",
			Title:   "Constitution of Nigeria 1999 - Section 44 (Right to Property)",
			Summary: "Protects property rights and limits compulsory acquisition.",
			Tags:    []string{"property", "seizure"},
		},
		{
			ID:      "cpa-44-seizure",
			Title:   "Criminal Procedure Act - Section 44 (Seizure Procedures)",
			Summary: "Provides when and how items may be seized in investigations.",
			Tags:    []string{"seizure", "procedure"},
		},
	},
	IncidentAssault: {
		{
			ID:      "const-34",
			Title:   "Constitution of Nigeria 1999 - Section 34 (Right to Dignity)",
			Summary: "Prohibits torture and inhuman or degrading treatment.",
			Tags:    []string{"dignity", "assault", "force"},
		},
		{
			ID:      "cc-351",
			Title:   "Criminal Code Act - Section 351 (Assault)",
			Summary: "Defines assault and sets penalties.",
			Tags:    []string{"assault", "offence"},
		},
	},
	IncidentOther: {},
}

// Entries returns the catalog entries for an incident type, in catalog order.
func Entries(incident IncidentType) []LawEntry {
	return catalog[incident]
}

// ApplicableLawTitles returns the statute titles for an incident type.
// IncidentOther has no entries.
func ApplicableLawTitles(incident IncidentType) []string {
	entries := catalog[incident]
	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	return titles
}

// SearchLawsByTags filters an incident's catalog entries to those whose
// tag set intersects the given tags, preserving catalog order.
func SearchLawsByTags(incident IncidentType, tags []string) []string {
	wanted := make(map[string]bool, len(tags))
	for _, t := range tags {
		wanted[t] = true
	}

	var titles []string
	for _, e := range catalog[incident] {
		for _, t := range e.Tags {
			if wanted[t] {
				titles = append(titles, e.Title)
				break
			}
		}
	}
	return titles
}
