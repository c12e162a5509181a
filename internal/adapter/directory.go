package adapter

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/jobintake/internal/model"
)

// messageNamespace scopes content-derived message IDs.
var messageNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobintake/messages"))

// DirectorySource reads inbound messages from files in a directory: plain
// text (.txt, .md), HTML exports (.html) and raw emails (.eml).
type DirectorySource struct {
	name string
	dir  string
}

// NewDirectorySource creates a source for the inbox named name at dir.
func NewDirectorySource(name, dir string) *DirectorySource {
	return &DirectorySource{name: name, dir: dir}
}

// FetchMessages returns one message per readable file, in filename order.
// The message ID is derived from the text, so the same content always maps to
// the same ID wherever it is found.
func (s *DirectorySource) FetchMessages(ctx context.Context) ([]model.Message, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox %s: reading %s: %w", s.name, s.dir, err)
	}

	var msgs []model.Message
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("inbox %s: %w", s.name, err)
		}
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".txt" && ext != ".md" && ext != ".eml" && ext != ".html" {
			continue
		}

		path := filepath.Join(s.dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("inbox %s: reading %s: %w", s.name, path, err)
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("inbox %s: stat %s: %w", s.name, path, err)
		}

		text := messageText(ext, string(raw))
		if text == "" {
			continue
		}
		msgs = append(msgs, model.Message{
			ID:         uuid.NewSHA1(messageNamespace, []byte(text)).String(),
			Source:     path,
			Text:       text,
			ReceivedAt: info.ModTime(),
		})
	}
	return msgs, nil
}

// messageText extracts the human-written text from a file body.
func messageText(ext, raw string) string {
	switch ext {
	case ".eml":
		return emailText(raw)
	case ".html":
		return extractText(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

// emailText returns the subject and body of a raw RFC 5322 message. Input
// that does not parse as an email is treated as plain text.
func emailText(raw string) string {
	m, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	bodyBytes, err := io.ReadAll(m.Body)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	body := string(bodyBytes)
	if looksLikeHTML(body) {
		body = extractText(body)
	}

	subject := strings.TrimSpace(m.Header.Get("Subject"))
	body = strings.TrimSpace(body)
	switch {
	case subject == "":
		return body
	case body == "":
		return subject
	default:
		return subject + "\n\n" + body
	}
}
