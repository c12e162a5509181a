package normalize

import (
	"testing"

	"github.com/amishk599/jobintake/internal/taxonomy"
)

func TestCategoriseWork(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "plumbing keyword", text: "Sink repair", want: "Plumbing"},
		{name: "electrical keyword", text: "Lights install", want: "Electrical"},
		{name: "case insensitive", text: "BLOCKED DRAIN", want: "Plumbing"},
		{name: "substring match", text: "Repaint bedroom", want: "Painting"},
		{name: "hvac", text: "Split system service", want: "Heating & Cooling"},
		{name: "no match falls back", text: "Quote for general odd jobs", want: "General"},
		{name: "empty text", text: "", want: "General"},
		{name: "table order breaks ties", text: "Leaking pipe behind light switch", want: "Plumbing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoriseWork(tt.text); got != tt.want {
				t.Errorf("CategoriseWork(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifier_CustomTable(t *testing.T) {
	c := NewClassifier([]taxonomy.Category{
		{Label: "Solar", Keywords: []string{"Solar Panel"}},
		{Label: "Electrical", Keywords: []string{"panel"}},
		{Label: taxonomy.GeneralLabel},
	})

	if got := c.Categorise("clean the solar panels"); got != "Solar" {
		t.Errorf("Categorise = %q, want Solar (earlier entry wins)", got)
	}
	if got := c.Categorise("replace switch panel"); got != "Electrical" {
		t.Errorf("Categorise = %q, want Electrical", got)
	}
	if got := c.Categorise("mow the lawn"); got != taxonomy.GeneralLabel {
		t.Errorf("Categorise = %q, want General", got)
	}
}

func TestClassifier_Categories(t *testing.T) {
	cats := NewClassifier(nil).Categories()
	if len(cats) != len(taxonomy.Categories) {
		t.Fatalf("categories len = %d, want %d", len(cats), len(taxonomy.Categories))
	}
	if cats[len(cats)-1].Label != taxonomy.GeneralLabel {
		t.Errorf("last label = %q, want General", cats[len(cats)-1].Label)
	}
}
