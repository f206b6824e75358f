package persist

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/artboard/pkg/scene"
)

// MemoryStore keeps documents in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore returns an empty store. A nil now uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{docs: make(map[string]Document), now: now}
}

func (s *MemoryStore) Save(ctx context.Context, canvasID string, recs []scene.Record) error {
	if err := validate(canvasID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[canvasID] = Document{ID: canvasID, Data: cloneRecords(recs), UpdatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, canvasID string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[canvasID]
	if !ok {
		return Document{}, notFound(canvasID)
	}
	doc.Data = cloneRecords(doc.Data)
	return doc, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
