package review

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobintake/internal/model"
)

func str(s string) *string { return &s }

func record(id, client, iso string) model.SavedRecord {
	r := model.SavedRecord{
		ID:     id,
		Source: "leads",
		Record: model.NormalizedJobRecord{ClientName: client, Category: "Plumbing", Description: "Sink repair"},
	}
	if iso != "" {
		r.Record.Schedule = &model.ScheduleResolution{ISO: iso, Display: "display " + id}
	}
	return r
}

func TestScheduledOnly(t *testing.T) {
	records := []model.SavedRecord{
		record("1", "Late", "2026-10-25T09:00:00.000Z"),
		record("2", "None", ""),
		record("3", "Early", "2026-10-22T14:00:00.000Z"),
	}

	got := scheduledOnly(records)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != "3" || got[1].ID != "1" {
		t.Errorf("order = %s,%s, want 3,1", got[0].ID, got[1].ID)
	}
}

func TestRenderRecords(t *testing.T) {
	if got := renderRecords(nil, 0, true); got != "  (no jobs)" {
		t.Errorf("empty render = %q", got)
	}

	r := record("1", "John Smith", "2026-10-22T14:00:00.000Z")
	r.Record.Address = str("12 Smith Street, Richmond")
	out := renderRecords([]model.SavedRecord{r, record("2", "", "")}, 0, true)

	for _, want := range []string{"John Smith · Plumbing", "display 1 · 12 Smith Street, Richmond", "(no name)", "unscheduled"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "> ") {
		t.Errorf("selected row not marked:\n%s", out)
	}
}

func TestReviewModel_Navigation(t *testing.T) {
	records := []model.SavedRecord{
		record("1", "A", ""),
		record("2", "B", "2026-10-22T14:00:00.000Z"),
	}
	var m tea.Model = reviewModel{allRecords: records, scheduled: scheduledOnly(records)}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(reviewModel).leftCursor; got != 1 {
		t.Fatalf("leftCursor = %d, want 1", got)
	}
	// Cursor stops at the last record.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(reviewModel).leftCursor; got != 1 {
		t.Errorf("leftCursor = %d, want clamp at 1", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := m.(reviewModel)
	if rm.view != viewDetail || rm.detail.ID != "2" {
		t.Fatalf("detail view = %v/%q, want detail of record 2", rm.view, rm.detail.ID)
	}
	if !strings.Contains(rm.renderDetail(), "display 2") {
		t.Error("detail does not show the schedule")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(reviewModel).view != viewList {
		t.Error("esc did not return to the list")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.(reviewModel).activePane; got != 1 {
		t.Errorf("activePane = %d, want 1 after tab", got)
	}
}

func TestMapsURL(t *testing.T) {
	got := mapsURL("12 Smith Street, Richmond")
	if !strings.HasSuffix(got, "query=12+Smith+Street%2C+Richmond") {
		t.Errorf("mapsURL = %q", got)
	}
}
