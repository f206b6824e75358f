// Package persist saves and loads canvas documents.
//
// A document is the flat record list produced by [scene.Encode]. Every save
// is a full, idempotent overwrite of the canvas; there is no partial update
// or merge.
//
// Store backends:
//   - [MongoStore]: one MongoDB document per canvas
//   - [FileStore]: one JSON file per canvas, for the CLI
//   - [HTTPStore]: client for the artboard server API
//   - [MemoryStore]: in-process, for tests
//
// [Autosaver] debounces saves for an editing session.
package persist

import (
	"context"
	"fmt"
	"slices"
	"time"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

// ErrNotFound is returned by Load when the canvas has never been saved.
var ErrNotFound = apperr.New(apperr.ErrCodeCanvasNotFound, "canvas not found")

// Document is a saved canvas.
type Document struct {
	ID        string         `json:"id" bson:"_id"`
	Data      []scene.Record `json:"data" bson:"data"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// State decodes the document into a scene state.
func (d Document) State() (scene.State, error) {
	st, err := scene.Decode(d.Data)
	if err != nil {
		return scene.State{}, fmt.Errorf("decode canvas %s: %w", d.ID, err)
	}
	return st, nil
}

// Store persists canvas documents.
type Store interface {
	// Save replaces the canvas content with recs.
	Save(ctx context.Context, canvasID string, recs []scene.Record) error

	// Load returns the saved document or an error wrapping [ErrNotFound].
	Load(ctx context.Context, canvasID string) (Document, error)

	Close() error
}

func notFound(canvasID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, canvasID)
}

func validate(canvasID string) error {
	return apperr.ValidateID("canvas", canvasID)
}

// cloneRecords copies recs so stored data never aliases the caller's.
func cloneRecords(recs []scene.Record) []scene.Record {
	out := make([]scene.Record, len(recs))
	for i, r := range recs {
		r.Children = slices.Clone(r.Children)
		out[i] = r
	}
	return out
}
