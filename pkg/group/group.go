// Package group turns a selection of top-level objects into a group and
// back.
//
// Grouping keeps every child at its absolute document position, so a
// group followed by an ungroup leaves all bounding boxes unchanged.
package group

import (
	"slices"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

// TopLevel filters a selection down to distinct, existing top-level ids.
func TopLevel(s *scene.Scene, selection []string) []string {
	out := make([]string, 0, len(selection))
	for _, id := range selection {
		if s.Index(id) >= 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// GroupSelected groups the selected top-level objects and returns the new
// group's id. With fewer than two top-level objects it returns "" and an
// INVALID_SELECTION error without touching the scene.
func GroupSelected(s *scene.Scene, selection []string) (string, error) {
	ids := TopLevel(s, selection)
	if len(ids) < 2 {
		return "", apperr.New(apperr.ErrCodeInvalidSelection, "group needs at least 2 top-level objects, got %d", len(ids))
	}
	return s.Compose(nil, ids)
}

// UngroupSelected dissolves the selected group and returns the released
// child ids. ok is false, and nothing changes, unless the selection is
// exactly one top-level group.
func UngroupSelected(s *scene.Scene, selection []string) (children []string, ok bool) {
	if len(selection) != 1 {
		return nil, false
	}
	id := selection[0]
	o, found := s.Get(id)
	if !found || o.Kind() != scene.KindGroup || o.Parent != "" {
		return nil, false
	}
	children, err := s.Decompose(id)
	if err != nil {
		return nil, false
	}
	return children, true
}
