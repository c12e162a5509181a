package store

import (
	"context"
	"time"

	"github.com/amishk599/jobintake/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It never marks messages as
// seen, so every message appears new on each poll, and it discards records.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(messageID string) (bool, error) { return false, nil }
func (s *NopStore) MarkSeen(messageID string) error { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
func (s *NopStore) IsEmpty() (bool, error) { return false, nil }

// SaveRecord discards rec and returns an empty id.
func (s *NopStore) SaveRecord(_ context.Context, _ string, _ model.NormalizedJobRecord) (string, error) {
	return "", nil
}
