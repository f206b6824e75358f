package presence

import (
	"context"
	"sync"
	"time"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

// MemoryStore keeps presence records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]Record
	now     func() time.Time
}

// NewMemoryStore returns an empty store stamped by now, or time.Now when
// now is nil.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{records: make(map[string]map[string]Record), now: now}
}

func (s *MemoryStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	if err := validate(rec.CanvasID, rec.UserID); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.LastActive = s.now()
	fill(&rec)
	byUser := s.records[rec.CanvasID]
	if byUser == nil {
		byUser = make(map[string]Record)
		s.records[rec.CanvasID] = byUser
	}
	if prev, ok := byUser[rec.UserID]; ok && prev.LastActive.After(rec.LastActive) {
		return prev, nil
	}
	byUser[rec.UserID] = rec
	return rec, nil
}

func (s *MemoryStore) List(ctx context.Context, canvasID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records[canvasID]))
	for _, r := range s.records[canvasID] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, canvasID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records[canvasID], userID)
	if len(s.records[canvasID]) == 0 {
		delete(s.records, canvasID)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

func validate(canvasID, userID string) error {
	if err := apperr.ValidateID("canvas", canvasID); err != nil {
		return err
	}
	return apperr.ValidateID("user", userID)
}

// fill sets the derived fields of a record.
func fill(rec *Record) {
	if rec.Name == "" {
		rec.Name = DefaultUserName
	}
	rec.Color = ColorFor(rec.UserID)
}
