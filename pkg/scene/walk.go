package scene

import (
	"errors"

	"github.com/matzehuels/artboard/pkg/geom"
)

// SkipChildren may be returned from a Walk callback on a group node to skip
// its descendants.
var SkipChildren = errors.New("skip children")

// Node is a resolved view of an object handed to Walk callbacks.
type Node struct {
	Object  *Object     // copy; changes are not applied to the scene
	Depth   int         // 0 for top-level objects
	Index   int         // position within the parent's stacking order
	Matrix  geom.Matrix // absolute object-to-document transform
	Bounds  geom.Rect   // absolute axis-aligned bounds
	Visible bool        // false when the object or any ancestor is hidden
}

// Walk visits every object in paint order: top-level objects back to front,
// each group immediately followed by its children. It stops at the first
// error returned by fn other than [SkipChildren].
func (s *Scene) Walk(fn func(Node) error) error {
	for i, id := range s.order {
		if err := s.walk(s.objects[id], 0, i, true, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) walk(o *Object, depth, index int, visible bool, fn func(Node) error) error {
	visible = visible && !o.Hidden
	err := fn(Node{
		Object:  o.Clone(),
		Depth:   depth,
		Index:   index,
		Matrix:  o.Local(),
		Bounds:  s.bounds(o),
		Visible: visible,
	})
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}
	g, ok := o.Shape.(Group)
	if !ok {
		return nil
	}
	for i, cid := range g.Children {
		if err := s.walk(s.objects[cid], depth+1, i, visible, fn); err != nil {
			return err
		}
	}
	return nil
}
