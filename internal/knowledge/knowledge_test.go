package knowledge

import "testing"

func TestApplicableLawTitles(t *testing.T) {
	tests := []struct {
		incident IncidentType
		want     int
	}{
		{IncidentSearch, 3},
		{IncidentArrest, 2},
		{IncidentSeizure, 2},
		{IncidentAssault, 2},
		{IncidentOther, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.incident), func(t *testing.T) {
			titles := ApplicableLawTitles(tt.incident)
			if len(titles) != tt.want {
				t.Errorf("expected %d titles, got %d", tt.want, len(titles))
			}
		})
	}
}

func TestApplicableLawTitlesMatchCatalog(t *testing.T) {
	titles := ApplicableLawTitles(IncidentSearch)
	if titles[0] != "Constitution of Nigeria 1999 - Section 37 (Right to Privacy)" {
		t.Errorf("unexpected first search title: %q", titles[0])
	}

	entries := Entries(IncidentSearch)
	if len(entries) != len(titles) {
		t.Fatalf("entries/titles mismatch: %d vs %d", len(entries), len(titles))
	}
	for i, e := range entries {
		if e.Title != titles[i] {
			t.Errorf("title[%d]: got %q, want %q", i, titles[i], e.Title)
		}
	}
}

func TestSearchLawsByTags(t *testing.T) {
	titles := SearchLawsByTags(IncidentSearch, []string{"warrant"})
	if len(titles) != 2 {
		t.Fatalf("expected 2 warrant-tagged search laws, got %d", len(titles))
	}
	// Catalog order preserved: CPA s.46 before Evidence Act s.44.
	if titles[0] != "Criminal Procedure Act - Section 46 (Search Procedures)" {
		t.Errorf("unexpected first result: %q", titles[0])
	}

	if got := SearchLawsByTags(IncidentOther, []string{"warrant"}); len(got) != 0 {
		t.Errorf("expected no results for other, got %v", got)
	}

	if got := SearchLawsByTags(IncidentAssault, []string{"privacy"}); len(got) != 0 {
		t.Errorf("expected no results for unmatched tags, got %v", got)
	}
}
