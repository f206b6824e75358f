package persist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

func withID(o *scene.Object, id string) *scene.Object {
	o.ID = id
	return o
}

func sampleRecords(t *testing.T) []scene.Record {
	t.Helper()
	s := scene.New()
	if _, err := s.Add(withID(scene.NewRect(10, 20), "r1")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(withID(scene.NewText(0, 0), "t1")); err != nil {
		t.Fatal(err)
	}
	return scene.Encode(s.Snapshot())
}

func ids(recs []scene.Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestStores(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stores := map[string]Store{
		"memory": NewMemoryStore(nil),
		"file":   fs,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Load(ctx, "c1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load(unsaved) error = %v, want ErrNotFound", err)
			}

			recs := sampleRecords(t)
			if err := store.Save(ctx, "c1", recs); err != nil {
				t.Fatal(err)
			}
			doc, err := store.Load(ctx, "c1")
			if err != nil {
				t.Fatal(err)
			}
			if doc.ID != "c1" || !slices.Equal(ids(doc.Data), []string{"r1", "t1"}) || doc.UpdatedAt.IsZero() {
				t.Errorf("Load() = %+v", doc)
			}
			st, err := doc.State()
			if err != nil || st.Len() != 2 {
				t.Errorf("State() = %d objects, %v", st.Len(), err)
			}

			// Saves overwrite in full.
			if err := store.Save(ctx, "c1", recs[:1]); err != nil {
				t.Fatal(err)
			}
			doc, _ = store.Load(ctx, "c1")
			if len(doc.Data) != 1 {
				t.Errorf("after overwrite: %d records", len(doc.Data))
			}

			if err := store.Save(ctx, "../x", recs); !apperr.Is(err, apperr.ErrCodeInvalidID) {
				t.Errorf("Save(../x) error = %v, want INVALID_ID", err)
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	s := scene.New()
	s.Add(withID(scene.NewRect(0, 0), "a"))
	s.Add(withID(scene.NewRect(50, 0), "b"))
	gid, err := s.Compose(&scene.Object{ID: "g", Shape: scene.Group{}}, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	recs := scene.Encode(s.Snapshot())
	store.Save(ctx, "c1", recs)

	for i := range recs {
		if recs[i].ID == gid {
			recs[i].Children[0] = "mutated"
		}
	}
	doc, _ := store.Load(ctx, "c1")
	for _, r := range doc.Data {
		if r.ID == gid && r.Children[0] == "mutated" {
			t.Error("stored document aliases caller slice")
		}
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	store.Save(ctx, "b", nil)
	store.Save(ctx, "a", nil)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600)

	got, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("List() = %v", got)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %q", store.Path())
	}
}

func TestHTTPStore(t *testing.T) {
	backend := NewMemoryStore(nil)
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := filepath.Base(r.URL.Path)
		gotUser = r.Header.Get("X-User-ID")
		switch r.Method {
		case http.MethodGet:
			doc, err := backend.Load(r.Context(), id)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(doc)
		case http.MethodPatch:
			var req SaveRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			backend.Save(r.Context(), id, req.Data)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := NewHTTPStore(srv.URL, map[string]string{"X-User-ID": "u1"})
	if _, err := store.Load(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(unsaved) error = %v", err)
	}
	if err := store.Save(ctx, "c1", sampleRecords(t)); err != nil {
		t.Fatal(err)
	}
	doc, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Data) != 2 || doc.Data[0].Type != scene.KindRectangle {
		t.Errorf("Load() = %+v", doc)
	}
	if gotUser != "u1" {
		t.Errorf("X-User-ID = %q", gotUser)
	}
}
