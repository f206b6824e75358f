package scene

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

// Compose makes the given top-level objects children of a new group.
//
// The group takes the z-index of the front-most child and keeps the
// children's relative stacking. Its position is set to the origin of the
// children's union bounds; children keep their absolute coordinates.
// Subscribers see a single EventModified.
func (s *Scene) Compose(group *Object, childIDs []string) (string, error) {
	if len(childIDs) == 0 {
		return "", apperr.New(apperr.ErrCodeInvalidSelection, "group needs at least one child")
	}
	g := &Object{ScaleX: 1, ScaleY: 1, Opacity: 1}
	if group != nil {
		g = group.Clone()
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if slices.Contains(childIDs, g.ID) {
		return "", fmt.Errorf("%w: %s", ErrCycle, g.ID)
	}
	if _, exists := s.objects[g.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
	}

	seen := make(map[string]bool, len(childIDs))
	for _, id := range childIDs {
		o, ok := s.objects[id]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if o.Parent != "" {
			return "", apperr.New(apperr.ErrCodeInvalidSelection, "%s already belongs to group %s", id, o.Parent)
		}
		if seen[id] {
			return "", apperr.New(apperr.ErrCodeInvalidSelection, "%s selected twice", id)
		}
		seen[id] = true
	}

	// Keep stacking order regardless of selection order.
	kids := slices.Clone(childIDs)
	slices.SortFunc(kids, func(a, b string) int { return s.Index(a) - s.Index(b) })
	at := s.Index(kids[len(kids)-1]) - (len(kids) - 1)

	bounds, _ := s.UnionBounds(kids)
	g.X, g.Y = bounds.X, bounds.Y
	g.Angle, g.ScaleX, g.ScaleY = 0, 1, 1
	g.Parent = ""
	g.Shape = Group{Children: kids}
	g.Name = fmt.Sprintf("Group (%d items)", len(kids))
	if group != nil && group.Name != "" {
		g.Name = group.Name
	}

	s.order = slices.DeleteFunc(s.order, func(id string) bool { return seen[id] })
	s.order = slices.Insert(s.order, at, g.ID)
	for _, id := range kids {
		s.objects[id].Parent = g.ID
	}
	s.objects[g.ID] = g
	s.emit(EventModified, append([]string{g.ID}, kids...)...)
	return g.ID, nil
}

// Decompose dissolves a top-level group. Its children are reinserted at the
// group's z-index in their stacking order and returned.
func (s *Scene) Decompose(groupID string) ([]string, error) {
	g, ok := s.objects[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, groupID)
	}
	shape, ok := g.Shape.(Group)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidSelection, "%s is not a group", groupID)
	}
	if g.Parent != "" {
		return nil, apperr.New(apperr.ErrCodeInvalidSelection, "%s is nested in %s", groupID, g.Parent)
	}
	kids := slices.Clone(shape.Children)
	at := s.Index(groupID)
	s.order = slices.Delete(s.order, at, at+1)
	s.order = slices.Insert(s.order, at, kids...)
	for _, id := range kids {
		s.objects[id].Parent = ""
	}
	delete(s.objects, groupID)
	s.emit(EventModified, append([]string{groupID}, kids...)...)
	return kids, nil
}
