// Package align lines up and evenly spaces a selection of canvas objects.
//
// Both operations translate objects only; sizes never change. All moves are
// applied inside a single [scene.Scene.Batch], so listeners (history,
// autosave) see exactly one modified event per call.
package align

import (
	"cmp"
	"fmt"
	"slices"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Mode selects the edge or center to align.
type Mode string

const (
	Left   Mode = "left"
	Center Mode = "center"
	Right  Mode = "right"
	Top    Mode = "top"
	Middle Mode = "middle"
	Bottom Mode = "bottom"
)

// Axis selects the distribution direction.
type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// Modes lists every alignment mode.
var Modes = []Mode{Left, Center, Right, Top, Middle, Bottom}

// ParseMode parses an alignment mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", apperr.New(apperr.ErrCodeInvalidInput, "unknown align mode %q", s)
	}
	return m, nil
}

// ParseAxis parses a distribution axis name.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case Horizontal, Vertical:
		return Axis(s), nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidInput, "unknown distribute axis %q", s)
}

type item struct {
	id string
	b  geom.Rect
}

func collect(s *scene.Scene, ids []string) []item {
	items := make([]item, 0, len(ids))
	for _, id := range ids {
		if b, err := s.Bounds(id); err == nil {
			items = append(items, item{id, b})
		}
	}
	return items
}

// Align moves every object so that the chosen edge or center matches the
// one of the selection's union bounds. Fewer than two objects is an
// INVALID_SELECTION error and leaves the scene untouched.
func Align(s *scene.Scene, ids []string, mode Mode) error {
	items := collect(s, ids)
	if len(items) < 2 {
		return apperr.New(apperr.ErrCodeInvalidSelection, "align needs at least 2 objects, got %d", len(items))
	}
	rs := make([]geom.Rect, len(items))
	for i, it := range items {
		rs[i] = it.b
	}
	u := geom.Union(rs...)

	var moveErr error
	s.Batch(func() {
		for _, it := range items {
			var dx, dy float64
			switch mode {
			case Left:
				dx = u.Left() - it.b.Left()
			case Center:
				dx = u.CenterX() - it.b.CenterX()
			case Right:
				dx = u.Right() - it.b.Right()
			case Top:
				dy = u.Top() - it.b.Top()
			case Middle:
				dy = u.CenterY() - it.b.CenterY()
			case Bottom:
				dy = u.Bottom() - it.b.Bottom()
			default:
				moveErr = apperr.New(apperr.ErrCodeInvalidInput, "unknown align mode %q", mode)
				return
			}
			if dx == 0 && dy == 0 {
				continue
			}
			if err := s.Move(it.id, dx, dy); err != nil {
				moveErr = fmt.Errorf("align %s: %w", it.id, err)
				return
			}
		}
	})
	return moveErr
}

// Distribute spaces three or more objects evenly along an axis. Objects are
// ordered by their leading edge; the first and last keep their places and
// the gaps between consecutive bounding boxes become equal.
func Distribute(s *scene.Scene, ids []string, axis Axis) error {
	items := collect(s, ids)
	if len(items) < 3 {
		return apperr.New(apperr.ErrCodeInvalidSelection, "distribute needs at least 3 objects, got %d", len(items))
	}
	lead, size := leadSize(axis)
	if lead == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown distribute axis %q", axis)
	}

	slices.SortStableFunc(items, func(a, b item) int {
		return cmp.Compare(lead(a.b), lead(b.b))
	})
	first, last := items[0].b, items[len(items)-1].b
	span := lead(last) + size(last) - lead(first)
	var total float64
	for _, it := range items {
		total += size(it.b)
	}
	gap := (span - total) / float64(len(items)-1)

	var moveErr error
	s.Batch(func() {
		pos := lead(first)
		for _, it := range items {
			d := pos - lead(it.b)
			pos += size(it.b) + gap
			if d == 0 {
				continue
			}
			dx, dy := d, 0.0
			if axis == Vertical {
				dx, dy = 0, d
			}
			if err := s.Move(it.id, dx, dy); err != nil {
				moveErr = fmt.Errorf("distribute %s: %w", it.id, err)
				return
			}
		}
	})
	return moveErr
}

func leadSize(axis Axis) (lead, size func(geom.Rect) float64) {
	switch axis {
	case Horizontal:
		return geom.Rect.Left, func(r geom.Rect) float64 { return r.W }
	case Vertical:
		return geom.Rect.Top, func(r geom.Rect) float64 { return r.H }
	}
	return nil, nil
}
