package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobintake/internal/model"
)

// feedMessage is one entry in a lead feed (web form backend, chat export API).
type feedMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HTML       string `json:"html"`
	ReceivedAt string `json:"received_at"`
}

// feedResponse is the top-level lead feed response.
type feedResponse struct {
	Messages []feedMessage `json:"messages"`
}

// FeedSource fetches inbound messages from a JSON lead feed over HTTP.
type FeedSource struct {
	name   string
	url    string
	token  string
	client *http.Client
}

// NewFeedSource creates a source for the inbox named name. A non-empty token
// is sent as a bearer credential.
func NewFeedSource(name, url, token string, client *http.Client) *FeedSource {
	return &FeedSource{
		name:   name,
		url:    url,
		token:  token,
		client: client,
	}
}

// FetchMessages retrieves the feed and converts each entry into a Message.
// Entries without an id get one derived from their text.
func (s *FeedSource) FetchMessages(ctx context.Context) ([]model.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed fetch for %s: %w", s.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch for %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			Provider:   "feed " + s.name,
			StatusCode: resp.StatusCode,
			RetryAfter: model.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var fr feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("feed fetch for %s: %w", s.name, err)
	}

	msgs := make([]model.Message, 0, len(fr.Messages))
	for _, fm := range fr.Messages {
		text := strings.TrimSpace(fm.Text)
		if text == "" && fm.HTML != "" {
			text = extractText(fm.HTML)
		}
		if text == "" {
			continue
		}

		msg := model.Message{
			ID:     fm.ID,
			Source: s.url,
			Text:   text,
		}
		if msg.ID == "" {
			msg.ID = uuid.NewSHA1(messageNamespace, []byte(text)).String()
		}
		if fm.ReceivedAt != "" {
			if t, err := time.Parse(time.RFC3339, fm.ReceivedAt); err == nil {
				msg.ReceivedAt = t
			}
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}
