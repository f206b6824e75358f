package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/httputil"
	"github.com/matzehuels/artboard/pkg/presence"
)

// identity returns the caller's user id and display name from the gateway
// headers.
func identity(r *http.Request) (userID, name string, err error) {
	userID = r.Header.Get(httputil.HeaderUserID)
	if userID == "" {
		return "", "", apperr.New(apperr.ErrCodeInvalidID, "missing %s header", httputil.HeaderUserID)
	}
	name = r.Header.Get(httputil.HeaderUserName)
	return userID, name, nil
}

// active lists the fresh records of a canvas, excluding self.
func (s *Server) active(r *http.Request, canvasID, self string) ([]presence.Record, error) {
	recs, err := s.presence.List(r.Context(), canvasID)
	if err != nil {
		return nil, err
	}
	return presence.Filter(recs, self, s.now(), s.freshness), nil
}

func (s *Server) handleListPresence(w http.ResponseWriter, r *http.Request) {
	recs, err := s.active(r, chi.URLParam(r, "id"), r.Header.Get(httputil.HeaderUserID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleUpsertPresence(w http.ResponseWriter, r *http.Request) {
	userID, name, err := identity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var rec presence.Record
	if err := decodeJSON(w, r, &rec); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, err)
		return
	}
	rec.CanvasID = chi.URLParam(r, "id")
	rec.UserID = userID
	if name != "" {
		rec.Name = name
	}
	out, err := s.presence.Upsert(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePresence(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.presence.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
