package categorize

import (
	"testing"

	"github.com/praeto/tendertrack/internal/model"
)

func rules() []model.CategoryRule {
	return []model.CategoryRule{
		{Name: "insurance", Keywords: []string{"insurance", "broker", "underwriting"}},
		{Name: "construction", Keywords: []string{"construction", "building", "roofing"}},
		{Name: "cleaning_facility", Keywords: []string{"cleaning", "hygiene"}},
	}
}

func TestCategorize_FirstKeywordMatch(t *testing.T) {
	c := New(rules())

	tests := []struct {
		text string
		want string
	}{
		{"Provision of short-term insurance services", "insurance"},
		{"Appointment of an INSURANCE broker", "insurance"},
		{"Construction of a new clinic", "construction"},
		{"Roofing repairs at head office", "construction"},
		{"Deep cleaning of municipal offices", "cleaning_facility"},
		{"Supply of stationery", model.Uncategorized},
		{"", model.Uncategorized},
	}

	for _, tt := range tests {
		if got := c.Categorize(tt.text); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCategorize_DeclarationOrderWins(t *testing.T) {
	// "building insurance" matches both rules; whichever is declared
	// first must win, for every permutation.
	text := "Building insurance for council property"

	permutations := [][]model.CategoryRule{
		{
			{Name: "insurance", Keywords: []string{"insurance"}},
			{Name: "construction", Keywords: []string{"building"}},
		},
		{
			{Name: "construction", Keywords: []string{"building"}},
			{Name: "insurance", Keywords: []string{"insurance"}},
		},
	}

	for _, perm := range permutations {
		c := New(perm)
		want := perm[0].Name
		if got := c.Categorize(text); got != want {
			t.Errorf("rule order %q,%q: Categorize = %q, want %q",
				perm[0].Name, perm[1].Name, got, want)
		}
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := New(rules())
	text := "cleaning and construction services"

	first := c.Categorize(text)
	for i := 0; i < 100; i++ {
		if got := c.Categorize(text); got != first {
			t.Fatalf("Categorize not deterministic: %q then %q", first, got)
		}
	}
}

func TestCategorize_SubstringOnly(t *testing.T) {
	c := New([]model.CategoryRule{
		{Name: "insurance", Keywords: []string{"surety"}},
	})

	// Substring containment is intentional: "suretyship" contains "surety".
	if got := c.Categorize("suretyship facility"); got != "insurance" {
		t.Errorf("expected substring match, got %q", got)
	}
	// No fuzzy matching: a near-miss spelling does not match.
	if got := c.Categorize("suerty facility"); got != model.Uncategorized {
		t.Errorf("expected no match for misspelling, got %q", got)
	}
}

func TestIsPriorityBuyer(t *testing.T) {
	watch := []string{"National Treasury", "CIDB", "ERWAT"}

	tests := []struct {
		buyer string
		want  bool
	}{
		{"National Treasury", true},
		{"NATIONAL TREASURY - Head Office", true},
		{"the national treasury of south africa", true},
		{"cidb", true},
		{"Department of Health", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPriorityBuyer(tt.buyer, watch); got != tt.want {
			t.Errorf("IsPriorityBuyer(%q) = %v, want %v", tt.buyer, got, tt.want)
		}
	}
}
