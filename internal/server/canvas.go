package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/scene"
)

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	doc, err := s.canvases.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc.Data == nil {
		doc.Data = []scene.Record{}
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleSaveCanvas overwrites the canvas document. Bodies that do not
// decode into a valid scene are rejected before they reach the store.
func (s *Server) handleSaveCanvas(w http.ResponseWriter, r *http.Request) {
	var req persist.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := scene.Decode(req.Data); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.canvases.Save(r.Context(), id, req.Data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("saved canvas", "canvas", id, "objects", len(req.Data))
	w.WriteHeader(http.StatusNoContent)
}
