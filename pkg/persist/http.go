package persist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matzehuels/artboard/pkg/httputil"
	"github.com/matzehuels/artboard/pkg/scene"
)

// HTTPStore talks to the canvas endpoints of an artboard server:
//
//	GET   /api/canvases/{id}   -> {id, data, updated_at}
//	PATCH /api/canvases/{id}   <- {data}
type HTTPStore struct {
	client *httputil.Client
}

// SaveRequest is the PATCH body.
type SaveRequest struct {
	Data []scene.Record `json:"data"`
}

// NewHTTPStore returns a store for the server at baseURL. headers are sent
// with every request, typically the identity headers.
func NewHTTPStore(baseURL string, headers map[string]string) *HTTPStore {
	return &HTTPStore{client: httputil.NewClient(baseURL, headers)}
}

func canvasPath(canvasID string) string {
	return "/api/canvases/" + url.PathEscape(canvasID)
}

func (s *HTTPStore) Save(ctx context.Context, canvasID string, recs []scene.Record) error {
	if err := validate(canvasID); err != nil {
		return err
	}
	if recs == nil {
		recs = []scene.Record{}
	}
	if err := s.client.Do(ctx, http.MethodPatch, canvasPath(canvasID), SaveRequest{Data: recs}, nil); err != nil {
		return fmt.Errorf("save canvas %s: %w", canvasID, err)
	}
	return nil
}

func (s *HTTPStore) Load(ctx context.Context, canvasID string) (Document, error) {
	if err := validate(canvasID); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.client.Do(ctx, http.MethodGet, canvasPath(canvasID), nil, &doc)
	if errors.Is(err, httputil.ErrNotFound) {
		return Document{}, notFound(canvasID)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load canvas %s: %w", canvasID, err)
	}
	return doc, nil
}

func (s *HTTPStore) Close() error { return nil }

var _ Store = (*HTTPStore)(nil)
