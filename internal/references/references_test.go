package references

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestExtractLaws(t *testing.T) {
	text := "Legal basis: Constitution of Nigeria 1999 s.37 (privacy); Evidence Act (lawful collection); Police Act (powers subject to due process)."
	refs := Extract(text)

	// Law patterns stop at periods and semicolons, so "s.37" is cut short.
	want := []string{
		"Constitution of Nigeria 1999 s",
		"Evidence Act (lawful collection)",
		"Police Act (powers subject to due process)",
	}
	for _, w := range want {
		if !contains(refs.Laws, w) {
			t.Errorf("expected law %q in %v", w, refs.Laws)
		}
	}
	if len(refs.Cases) != 0 {
		t.Errorf("expected no cases, got %v", refs.Cases)
	}
}

func TestExtractSectionPattern(t *testing.T) {
	refs := Extract("Under section 35 of the Constitution you must be informed of the reason for arrest")
	if len(refs.Laws) != 1 {
		t.Fatalf("expected 1 law, got %v", refs.Laws)
	}
	if !strings.HasPrefix(refs.Laws[0], "section 35 of the Constitution") {
		t.Errorf("unexpected law: %q", refs.Laws[0])
	}
}

func TestExtractCases(t *testing.T) {
	refs := Extract("See Ransome-Kuti v. Attorney-General (1985) and a related holding.")
	if len(refs.Cases) == 0 {
		t.Fatalf("expected at least one case, got none")
	}
	if !strings.Contains(refs.Cases[0], "v") {
		t.Errorf("unexpected case: %q", refs.Cases[0])
	}
}

func TestExtractDedupes(t *testing.T) {
	text := "Evidence Act applies. Evidence Act applies."
	refs := Extract(text)
	if len(refs.Laws) != 1 {
		t.Errorf("expected deduped single law, got %v", refs.Laws)
	}
}

func TestExtractCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "section %d of the Criminal Code applies\n", i+100)
	}
	refs := Extract(b.String())
	if len(refs.Laws) != 10 {
		t.Errorf("expected cap of 10 laws, got %d", len(refs.Laws))
	}
}

func TestCleanAndDedupe(t *testing.T) {
	in := []string{
		"Legal basis: Constitution of Nigeria 1999 s.37.",
		"Evidence   Act;  Police Act",
		"short",
		"",
	}
	got := CleanAndDedupe(in)
	want := []string{
		"Constitution of Nigeria 1999 s.37",
		"Evidence Act",
		"Police Act",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCleanAndDedupeIdempotent(t *testing.T) {
	in := []string{
		"Legal basis: Constitution of Nigeria 1999 - Section 37 (Right to Privacy).",
		"Criminal Procedure Act - Section 46; Evidence Act - Section 44",
	}
	once := CleanAndDedupe(in)
	twice := CleanAndDedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("cleaning not stable under a second pass: %v vs %v", once, twice)
	}
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
