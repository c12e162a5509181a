package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobintake/internal/model"
)

// mockProvider is a stub LLMProvider for testing.
type mockProvider struct {
	response string
	err      error
	calls    int
	lastReq  CompletionRequest
}

func (m *mockProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.calls++
	m.lastReq = req
	return m.response, m.err
}

func newTestExtractor(provider LLMProvider) *LLMJobExtractor {
	return NewLLMJobExtractor(provider, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strOrNil(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestExtract_ShortInputSkipsProvider(t *testing.T) {
	tests := []struct {
		text string
		mode model.ExtractMode
	}{
		{"hi there", model.ExtractSingle},
		{"   bob sink    ", model.ExtractSingle},
		{"john, sink 2pm", model.ExtractMulti},
		{"", model.ExtractMulti},
	}
	for _, tt := range tests {
		p := &mockProvider{response: `{"is_job":true}`}
		got := newTestExtractor(p).ExtractCandidates(context.Background(), tt.text, tt.mode)
		if got != nil {
			t.Errorf("%q (%s): got %d candidates, want none", tt.text, tt.mode, len(got))
		}
		if p.calls != 0 {
			t.Errorf("%q (%s): provider called %d times, want 0", tt.text, tt.mode, p.calls)
		}
	}
}

func TestExtractSingle_PopulatesCandidate(t *testing.T) {
	p := &mockProvider{response: `{
		"is_job": true,
		"client_name": "  john smith ",
		"work_description": "Sink repair",
		"price": 180,
		"address": "12 smith st richmond",
		"schedule": "2pm tmrw",
		"phone": "0412 345 678",
		"email": "John@Example.com"
	}`}

	got := newTestExtractor(p).ExtractCandidates(context.Background(), "John Smith sink leaking 2pm tmrw 12 smith st richmond", model.ExtractSingle)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	c := got[0]
	if c.ClientName != "john smith" {
		t.Errorf("ClientName = %q", c.ClientName)
	}
	if c.WorkDescription != "Sink repair" {
		t.Errorf("WorkDescription = %q", c.WorkDescription)
	}
	if c.Price != 180 {
		t.Errorf("Price = %d, want 180", c.Price)
	}
	if strOrNil(c.Phone) != "0412345678" {
		t.Errorf("Phone = %s, want digits only", strOrNil(c.Phone))
	}
	if strOrNil(c.Email) != "john@example.com" {
		t.Errorf("Email = %s", strOrNil(c.Email))
	}
	if strOrNil(c.Schedule) != "2pm tmrw" {
		t.Errorf("Schedule = %s", strOrNil(c.Schedule))
	}
	if p.lastReq.SchemaName != "single_job" {
		t.Errorf("SchemaName = %q, want single_job", p.lastReq.SchemaName)
	}
	if !strings.Contains(p.lastReq.User, "John Smith sink leaking") {
		t.Error("prompt does not contain the input text")
	}
}

func TestExtractSingle_GateClosed(t *testing.T) {
	p := &mockProvider{response: `{"is_job":false,"client_name":null,"work_description":null,"price":null,"address":null,"schedule":null,"phone":null,"email":null}`}
	got := newTestExtractor(p).ExtractCandidates(context.Background(), "how many jobs do I have today?", model.ExtractSingle)
	if got != nil {
		t.Errorf("got %d candidates, want none when is_job is false", len(got))
	}
}

func TestExtractSingle_NoNameNoDescription(t *testing.T) {
	p := &mockProvider{response: `{"is_job":true,"client_name":"unknown","work_description":"N/A","price":null,"address":"12 high st","schedule":null,"phone":null,"email":null}`}
	got := newTestExtractor(p).ExtractCandidates(context.Background(), "something at 12 high st", model.ExtractSingle)
	if got != nil {
		t.Errorf("got %d candidates, want none without name or description", len(got))
	}
}

func TestExtractSingle_AbsentFieldsStayAbsent(t *testing.T) {
	p := &mockProvider{response: `{"is_job":true,"client_name":"Mary","work_description":"Fence replacement","price":-50,"address":"","schedule":"none","phone":"ask later","email":"not-an-email"}`}
	got := newTestExtractor(p).ExtractCandidates(context.Background(), "Mary needs a new fence", model.ExtractSingle)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	c := got[0]
	if c.Address != nil || c.Schedule != nil || c.Phone != nil || c.Email != nil {
		t.Errorf("expected absent optional fields, got address=%s schedule=%s phone=%s email=%s",
			strOrNil(c.Address), strOrNil(c.Schedule), strOrNil(c.Phone), strOrNil(c.Email))
	}
	if c.Price != 0 {
		t.Errorf("Price = %d, want 0 for negative price", c.Price)
	}
}

func TestExtractSingle_HugePriceIsUnknown(t *testing.T) {
	p := &mockProvider{response: `{"is_job":true,"client_name":"Mary","work_description":"Fence replacement","price":1e19,"address":null,"schedule":null,"phone":null,"email":null}`}
	got := newTestExtractor(p).ExtractCandidates(context.Background(), "Mary needs a new fence", model.ExtractSingle)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Price != 0 {
		t.Errorf("Price = %d, want 0 for out-of-range price", got[0].Price)
	}
}

func TestExtract_ProviderError_ReturnsNone(t *testing.T) {
	p := &mockProvider{err: errors.New("network error")}
	for _, mode := range []model.ExtractMode{model.ExtractSingle, model.ExtractMulti} {
		got := newTestExtractor(p).ExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", mode)
		if got != nil {
			t.Errorf("%s: got %d candidates, want none on provider error", mode, len(got))
		}
	}
}

func TestExtract_MalformedOutput_ReturnsNone(t *testing.T) {
	for _, resp := range []string{
		"not json at all",
		`{"client_name":"John"}`,
		`{"is_job":"yes","client_name":"John","work_description":"x","price":null,"address":null,"schedule":null,"phone":null,"email":null}`,
		`{"jobs":"none"}`,
	} {
		p := &mockProvider{response: resp}
		e := newTestExtractor(p)
		if got := e.ExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", model.ExtractSingle); got != nil {
			t.Errorf("single %q: got %d candidates, want none", resp, len(got))
		}
		if got := e.ExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", model.ExtractMulti); got != nil {
			t.Errorf("multi %q: got %d candidates, want none", resp, len(got))
		}
	}
}

const threePeopleReply = `{"jobs":[
	{"client_name":null,"work_description":"Create these jobs","price":null,"address":null,"schedule":null,"phone":null,"email":null},
	{"client_name":"John Smith","work_description":"Sink repair","price":150,"address":"12 smith st richmond","schedule":"2pm tmrw","phone":null,"email":null},
	{"client_name":"Sarah Lee","work_description":"Downlight install","price":null,"address":"4 high rd","schedule":"9am mon","phone":"0400 111 222","email":null},
	{"client_name":"Tom Nguyen","work_description":"Gutter cleaning","price":220,"address":null,"schedule":"friday","phone":null,"email":"tom@example.com"},
	{"client_name":"john smith","work_description":"Tap repair","price":null,"address":null,"schedule":null,"phone":null,"email":null},
	{"client_name":null,"work_description":null,"price":null,"address":null,"schedule":null,"phone":null,"email":null}
]}`

func TestExtractMulti_ThreePeople(t *testing.T) {
	p := &mockProvider{response: threePeopleReply}
	text := "Create these jobs: John Smith sink repair 2pm tmrw 12 smith st richmond $150. " +
		"Sarah Lee lights install 9am mon 4 high rd 0400 111 222. Tom Nguyen gutters friday $220 tom@example.com"

	got := newTestExtractor(p).ExtractCandidates(context.Background(), text, model.ExtractMulti)
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}

	want := []struct {
		name, work string
		price      int
	}{
		{"John Smith", "Sink repair", 150},
		{"Sarah Lee", "Downlight install", 0},
		{"Tom Nguyen", "Gutter cleaning", 220},
	}
	for i, w := range want {
		if got[i].ClientName != w.name || got[i].WorkDescription != w.work || got[i].Price != w.price {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], w)
		}
	}
	if strOrNil(got[1].Phone) != "0400111222" {
		t.Errorf("Sarah phone = %s", strOrNil(got[1].Phone))
	}
	if strOrNil(got[2].Email) != "tom@example.com" {
		t.Errorf("Tom email = %s", strOrNil(got[2].Email))
	}
	for _, c := range got {
		if strings.Contains(strings.ToLower(c.WorkDescription), "create these jobs") {
			t.Errorf("instructional boilerplate returned as candidate: %+v", c)
		}
	}
	if p.lastReq.SchemaName != "multi_job" {
		t.Errorf("SchemaName = %q, want multi_job", p.lastReq.SchemaName)
	}
}

func TestExtractMulti_EmptyJobs(t *testing.T) {
	p := &mockProvider{response: `{"jobs":[]}`}
	got := newTestExtractor(p).ExtractCandidates(context.Background(), "thanks for the help yesterday", model.ExtractMulti)
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestTryExtractCandidates_ReportsUnavailable(t *testing.T) {
	outage := &mockProvider{err: &model.HTTPError{Provider: "openai", StatusCode: 503}}
	_, err := newTestExtractor(outage).TryExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", model.ExtractMulti)
	if !errors.Is(err, model.ErrExtractionUnavailable) {
		t.Errorf("provider outage: err = %v, want ErrExtractionUnavailable", err)
	}

	malformed := &mockProvider{response: `{"jobs":"none"}`}
	_, err = newTestExtractor(malformed).TryExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", model.ExtractMulti)
	if !errors.Is(err, model.ErrExtractionUnavailable) {
		t.Errorf("malformed output: err = %v, want ErrExtractionUnavailable", err)
	}

	for _, tt := range []struct {
		name string
		p    *mockProvider
		text string
	}{
		{"short input", &mockProvider{}, "hi"},
		{"gate closed", &mockProvider{response: `{"is_job":false,"client_name":null,"work_description":null,"price":null,"address":null,"schedule":null,"phone":null,"email":null}`}, "how many jobs do I have today?"},
	} {
		got, err := newTestExtractor(tt.p).TryExtractCandidates(context.Background(), tt.text, model.ExtractSingle)
		if err != nil || got != nil {
			t.Errorf("%s: got %v, %v, want no candidates and no error", tt.name, got, err)
		}
	}
}

func TestNopExtractor(t *testing.T) {
	got := NewNopExtractor().ExtractCandidates(context.Background(), "John Smith blocked drain tomorrow", model.ExtractMulti)
	if got != nil {
		t.Errorf("NopExtractor returned %d candidates", len(got))
	}
	if _, err := NewNopExtractor().TryExtractCandidates(context.Background(), "x", model.ExtractMulti); !errors.Is(err, model.ErrExtractionUnavailable) {
		t.Errorf("TryExtractCandidates err = %v, want ErrExtractionUnavailable", err)
	}
}
