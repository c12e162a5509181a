package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/amishk599/jobintake/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

func sampleRecord(id, client string) model.SavedRecord {
	return model.SavedRecord{
		ID:       id,
		TenantID: "acme",
		Source:   "leads",
		Record: model.NormalizedJobRecord{
			ClientName:  client,
			Category:    "Plumbing",
			Description: "Sink repair",
			Price:       180,
			Address:     str("12 Smith Street, Richmond"),
			Schedule:    &model.ScheduleResolution{ISO: "2026-10-22T14:00:00.000Z", Display: "Thu 22 Oct at 2:00 PM"},
			Phone:       str("0412345678"),
		},
	}
}

func newTestNotifier(url string, client *http.Client) *SlackNotifier {
	n := NewSlackNotifier(url, client, discardLogger())
	n.pause = 0
	return n
}

func TestSlackNotifier_EmptyRecords(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.SavedRecord{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_MultipleRecords(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())
	records := []model.SavedRecord{
		sampleRecord("1", "A"),
		sampleRecord("2", "B"),
		sampleRecord("3", "C"),
	}

	if err := n.Notify(records); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 3 {
		t.Errorf("expected 3 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_AllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())
	err := n.Notify([]model.SavedRecord{sampleRecord("1", "X"), sampleRecord("2", "Y")})
	if err == nil {
		t.Error("expected error when all messages fail, got nil")
	}
}

func TestSlackNotifier_PartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())
	if err := n.Notify([]model.SavedRecord{sampleRecord("1", "A"), sampleRecord("2", "B")}); err != nil {
		t.Errorf("expected nil (partial success), got %v", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())
	if err := n.Notify([]model.SavedRecord{sampleRecord("1", "Test")}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_PayloadFormat(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, srv.Client())
	if err := n.Notify([]model.SavedRecord{sampleRecord("1", "John Smith")}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" || payload.Blocks[0].Text.Text != "Plumbing: John Smith" {
		t.Errorf("header = %+v", payload.Blocks[0])
	}
	if got := payload.Blocks[2].Fields[0].Text; got != "*When:*\nThu 22 Oct at 2:00 PM" {
		t.Errorf("when field = %q", got)
	}
	if got := payload.Blocks[3].Fields[1].Text; got != "*Email:*\n-" {
		t.Errorf("email field = %q, want dash for absent email", got)
	}
	if got := payload.Blocks[4].Fields[0].Text; got != "*Price:*\n$180" {
		t.Errorf("price field = %q", got)
	}
	if payload.Blocks[5].Type != "divider" {
		t.Errorf("block[5] type = %q, want divider", payload.Blocks[5].Type)
	}
}

func TestBuildPayload_Unscheduled(t *testing.T) {
	r := sampleRecord("1", "Mary")
	r.Record.Schedule = nil
	r.Record.Price = 0

	p := buildPayload(r)
	if got := p.Blocks[2].Fields[0].Text; got != "*When:*\nUnscheduled" {
		t.Errorf("when field = %q", got)
	}
	if got := p.Blocks[4].Fields[0].Text; got != "*Price:*\n-" {
		t.Errorf("price field = %q", got)
	}
}
