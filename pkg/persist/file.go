package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/artboard/pkg/scene"
)

// FileStore keeps one JSON file per canvas in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/artboard/canvases/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "artboard", "canvases")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create canvas dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) canvasPath(canvasID string) string {
	return filepath.Join(s.baseDir, canvasID+".json")
}

func (s *FileStore) Save(ctx context.Context, canvasID string, recs []scene.Record) error {
	if err := validate(canvasID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{ID: canvasID, Data: recs, UpdatedAt: s.now().UTC()}
	if doc.Data == nil {
		doc.Data = []scene.Record{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal canvas: %w", err)
	}

	path := s.canvasPath(canvasID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write canvas file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write canvas file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, canvasID string) (Document, error) {
	if err := validate(canvasID); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.canvasPath(canvasID))
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, notFound(canvasID)
	}
	if err != nil {
		return Document{}, fmt.Errorf("read canvas file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse canvas: %w", err)
	}
	return doc, nil
}

// List returns the ids of all saved canvases.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read canvas dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
	}
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for canvas files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
