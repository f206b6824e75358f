package presence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matzehuels/artboard/pkg/httputil"
)

// HTTPStore talks to the presence endpoints of an artboard server:
//
//	GET    /api/canvases/{id}/presence
//	POST   /api/canvases/{id}/presence
//	DELETE /api/canvases/{id}/presence
//
// The caller's identity travels in the X-User-ID and X-User-Name headers.
type HTTPStore struct {
	client *httputil.Client
}

// NewHTTPStore returns a store for the server at baseURL.
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{client: httputil.NewClient(baseURL, nil)}
}

func presencePath(canvasID string) string {
	return fmt.Sprintf("/api/canvases/%s/presence", url.PathEscape(canvasID))
}

func (s *HTTPStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	if err := validate(rec.CanvasID, rec.UserID); err != nil {
		return Record{}, err
	}
	headers := map[string]string{
		httputil.HeaderUserID:   rec.UserID,
		httputil.HeaderUserName: rec.Name,
	}
	var out Record
	if err := s.client.DoWithHeaders(ctx, http.MethodPost, presencePath(rec.CanvasID), headers, rec, &out); err != nil {
		return Record{}, fmt.Errorf("upsert presence: %w", err)
	}
	return out, nil
}

func (s *HTTPStore) List(ctx context.Context, canvasID string) ([]Record, error) {
	var out []Record
	if err := s.client.Do(ctx, http.MethodGet, presencePath(canvasID), nil, &out); err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}
	return out, nil
}

func (s *HTTPStore) Delete(ctx context.Context, canvasID, userID string) error {
	headers := map[string]string{httputil.HeaderUserID: userID}
	if err := s.client.DoWithHeaders(ctx, http.MethodDelete, presencePath(canvasID), headers, nil, nil); err != nil {
		return fmt.Errorf("delete presence: %w", err)
	}
	return nil
}

func (s *HTTPStore) Close() error { return nil }

var _ Store = (*HTTPStore)(nil)
