package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/geom"
)

// Sentinel errors. They carry structured codes, so both errors.Is against
// the sentinel and apperr.Is against the code work on returned errors.
var (
	ErrNotFound    = apperr.New(apperr.ErrCodeNotFound, "object not found")
	ErrDuplicateID = apperr.New(apperr.ErrCodeInvalidInput, "duplicate object id")
	ErrCycle       = apperr.New(apperr.ErrCodeCycle, "group would contain itself")
)

// DuplicateOffset is the offset applied to duplicated objects.
const DuplicateOffset = 20

// EventType enumerates scene change notifications.
type EventType int

const (
	EventAdded EventType = iota + 1
	EventRemoved
	EventModified
	// EventRestored follows a Restore; listeners should refresh derived
	// views but must not record history for it.
	EventRestored
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventModified:
		return "modified"
	case EventRestored:
		return "restored"
	}
	return "unknown"
}

// Event describes a change to the scene.
type Event struct {
	Type EventType
	IDs  []string
}

type subscriber struct {
	id int
	fn func(Event)
}

// Scene is an ordered collection of canvas objects.
// It is not safe for concurrent use.
type Scene struct {
	order   []string
	objects map[string]*Object

	subs    []subscriber
	nextSub int

	depth   int
	pending []string
	dirty   bool
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{objects: make(map[string]*Object)}
}

// Subscribe registers fn for change events and returns a function that
// removes the registration.
func (s *Scene) Subscribe(fn func(Event)) (cancel func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// Batch runs fn and delivers every change made inside it as a single
// EventModified. Batches nest; only the outermost one emits.
func (s *Scene) Batch(fn func()) {
	s.depth++
	defer func() {
		s.depth--
		if s.depth > 0 || !s.dirty {
			return
		}
		ids := s.pending
		s.pending, s.dirty = nil, false
		s.deliver(Event{Type: EventModified, IDs: ids})
	}()
	fn()
}

func (s *Scene) emit(t EventType, ids ...string) {
	if s.depth > 0 {
		s.dirty = true
		for _, id := range ids {
			if !slices.Contains(s.pending, id) {
				s.pending = append(s.pending, id)
			}
		}
		return
	}
	s.deliver(Event{Type: t, IDs: ids})
}

func (s *Scene) deliver(e Event) {
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(e)
	}
}

// Len returns the number of top-level objects.
func (s *Scene) Len() int {
	return len(s.order)
}

// Count returns the number of objects including group descendants.
func (s *Scene) Count() int {
	return len(s.objects)
}

// Has reports whether an object with the given id exists at any depth.
func (s *Scene) Has(id string) bool {
	_, ok := s.objects[id]
	return ok
}

// Get returns a copy of the object with the given id.
func (s *Scene) Get(id string) (*Object, bool) {
	o, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

// All returns copies of the top-level objects in z-order, back-most first.
func (s *Scene) All() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id].Clone())
	}
	return out
}

// IDs returns the top-level ids in z-order.
func (s *Scene) IDs() []string {
	return slices.Clone(s.order)
}

// Index returns the z-index of a top-level object, or -1.
func (s *Scene) Index(id string) int {
	return slices.Index(s.order, id)
}

// Children returns copies of a group's direct children in stacking order.
// It returns nil for unknown ids and non-group objects.
func (s *Scene) Children(id string) []*Object {
	o, ok := s.objects[id]
	if !ok {
		return nil
	}
	g, ok := o.Shape.(Group)
	if !ok {
		return nil
	}
	out := make([]*Object, 0, len(g.Children))
	for _, cid := range g.Children {
		out = append(out, s.objects[cid].Clone())
	}
	return out
}

// Add appends obj to the front of the z-order and returns its id.
// An empty id is replaced with a generated UUID. Groups must be created
// empty; use [Scene.Compose] to give them children.
func (s *Scene) Add(obj *Object) (string, error) {
	if obj == nil || obj.Shape == nil {
		return "", apperr.New(apperr.ErrCodeInvalidInput, "object has no shape")
	}
	if g, ok := obj.Shape.(Group); ok && len(g.Children) > 0 {
		return "", apperr.New(apperr.ErrCodeInvalidInput, "groups are composed, not added with children")
	}
	o := obj.Clone()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, exists := s.objects[o.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
	}
	o.Parent = ""
	o.normalize()
	s.objects[o.ID] = o
	s.order = append(s.order, o.ID)
	s.emit(EventAdded, o.ID)
	return o.ID, nil
}

// Remove deletes an object and, for groups, all of its descendants.
// Unknown ids are ignored.
func (s *Scene) Remove(id string) {
	o, ok := s.objects[id]
	if !ok {
		return
	}
	if o.Parent != "" {
		if p, ok := s.objects[o.Parent]; ok {
			g := p.Shape.(Group)
			g.Children = slices.DeleteFunc(slices.Clone(g.Children), func(c string) bool { return c == id })
			p.Shape = g
		}
	} else {
		s.order = slices.DeleteFunc(s.order, func(c string) bool { return c == id })
	}
	removed := append([]string{id}, s.descendants(id)...)
	for _, rid := range removed {
		delete(s.objects, rid)
	}
	s.emit(EventRemoved, removed...)
}

// Update merges the non-nil fields of p into the object.
//
// Position, rotation and scale changes on a group are applied to every
// descendant as the same affine delta, so stored absolute positions stay
// consistent with the group transform. A non-uniform group scale that
// would skew a rotated child fails with INVALID_INPUT and changes nothing.
func (s *Scene) Update(id string, p Patch) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Shape != nil {
		if _, isGroup := p.Shape.(Group); isGroup {
			return apperr.New(apperr.ErrCodeInvalidInput, "group children cannot be patched")
		}
		if p.Shape.Kind() != o.Kind() {
			return apperr.New(apperr.ErrCodeInvalidInput, "cannot change %s into %s", o.Kind(), p.Shape.Kind())
		}
	}
	if (p.ScaleX != nil && *p.ScaleX == 0) || (p.ScaleY != nil && *p.ScaleY == 0) {
		return apperr.New(apperr.ErrCodeInvalidInput, "scale cannot be zero")
	}

	next := *o
	p.apply(&next)
	var children map[string]placement
	if o.Kind() == KindGroup && p.transforms() {
		var err error
		if children, err = s.propagate(id, o, &next); err != nil {
			return err
		}
	}
	*o = next
	for cid, pl := range children {
		c := s.objects[cid]
		c.X, c.Y, c.Angle, c.ScaleX, c.ScaleY = pl.x, pl.y, pl.angle, pl.sx, pl.sy
	}
	s.emit(EventModified, id)
	return nil
}

// placement is a descendant's transform after a group transform change.
type placement struct {
	x, y, angle, sx, sy float64
}

// propagate computes the placement of every descendant of a group whose
// transform changes from old to cur: each child keeps its transform
// relative to the group. A non-uniform scale that would skew a child
// rotated against the scale axes is rejected.
func (s *Scene) propagate(groupID string, old, cur *Object) (map[string]placement, error) {
	inv, ok := old.Local().Invert()
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "group %s has a singular transform", groupID)
	}
	delta := cur.Local().Multiply(inv)
	out := make(map[string]placement)
	for _, id := range s.descendants(groupID) {
		c := s.objects[id]
		x, y, angle, sx, sy, ok := delta.Multiply(c.Local()).Decompose()
		if !ok {
			return nil, apperr.New(apperr.ErrCodeInvalidInput,
				"non-uniform scale of group %s would skew rotated child %s", groupID, id)
		}
		if c.ScaleX < 0 {
			sx, sy, angle = -sx, -sy, angle+180
		}
		angle = c.Angle + normalizeAngle(angle-c.Angle)
		out[id] = placement{
			x:     x,
			y:     y,
			angle: keep(c.Angle, angle),
			sx:    keep(c.ScaleX, sx),
			sy:    keep(c.ScaleY, sy),
		}
	}
	return out, nil
}

// normalizeAngle maps deg into (-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	switch {
	case deg > 180:
		deg -= 360
	case deg <= -180:
		deg += 360
	}
	return deg
}

// keep returns old when v differs from it only by rounding noise.
func keep(old, v float64) float64 {
	if math.Abs(v-old) < geom.Epsilon {
		return old
	}
	return v
}

// Move translates an object by (dx, dy).
func (s *Scene) Move(id string, dx, dy float64) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Update(id, Patch{X: Float(o.X + dx), Y: Float(o.Y + dy)})
}

// MoveTo sets an object's position.
func (s *Scene) MoveTo(id string, x, y float64) error {
	return s.Update(id, Patch{X: Float(x), Y: Float(y)})
}

// Reorder moves a top-level object to newIndex, clamped to the valid range.
func (s *Scene) Reorder(id string, newIndex int) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if o.Parent != "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "cannot reorder group child %s", id)
	}
	cur := slices.Index(s.order, id)
	newIndex = max(0, min(newIndex, len(s.order)-1))
	if cur == newIndex {
		return nil
	}
	s.order = slices.Delete(s.order, cur, cur+1)
	s.order = slices.Insert(s.order, newIndex, id)
	s.emit(EventModified, id)
	return nil
}

// Duplicate copies an object, and for groups its whole subtree, under new
// ids. The copy is offset by [DuplicateOffset] on both axes and added at the
// front of the z-order.
func (s *Scene) Duplicate(id string) (string, error) {
	o, ok := s.objects[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := s.copyTree(o, "")
	cp.Name = o.Name + " copy"
	s.order = append(s.order, cp.ID)
	s.emit(EventAdded, cp.ID)
	return cp.ID, nil
}

func (s *Scene) copyTree(o *Object, parent string) *Object {
	cp := o.Clone()
	cp.ID = uuid.NewString()
	cp.Parent = parent
	cp.X += DuplicateOffset
	cp.Y += DuplicateOffset
	if g, ok := o.Shape.(Group); ok {
		kids := make([]string, 0, len(g.Children))
		for _, cid := range g.Children {
			kids = append(kids, s.copyTree(s.objects[cid], cp.ID).ID)
		}
		cp.Shape = Group{Children: kids}
	}
	s.objects[cp.ID] = cp
	return cp
}

// descendants returns all ids below a group, depth-first in stacking order.
func (s *Scene) descendants(id string) []string {
	o, ok := s.objects[id]
	if !ok {
		return nil
	}
	g, ok := o.Shape.(Group)
	if !ok {
		return nil
	}
	var out []string
	for _, cid := range g.Children {
		out = append(out, cid)
		out = append(out, s.descendants(cid)...)
	}
	return out
}

// Root returns the id of the top-level object containing id: the object
// itself when it is top-level, otherwise its outermost group.
func (s *Scene) Root(id string) string {
	for {
		o, ok := s.objects[id]
		if !ok {
			return ""
		}
		if o.Parent == "" {
			return id
		}
		id = o.Parent
	}
}

// Bounds returns the axis-aligned bounding box of an object in document
// coordinates. Stroke width is not included.
func (s *Scene) Bounds(id string) (geom.Rect, error) {
	o, ok := s.objects[id]
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.bounds(o), nil
}

// UnionBounds returns the union of the bounds of the known ids.
// ok is false when none of the ids exist.
func (s *Scene) UnionBounds(ids []string) (r geom.Rect, ok bool) {
	var rs []geom.Rect
	for _, id := range ids {
		if o, found := s.objects[id]; found {
			rs = append(rs, s.bounds(o))
		}
	}
	if len(rs) == 0 {
		return geom.Rect{}, false
	}
	return geom.Union(rs...), true
}

func (s *Scene) bounds(o *Object) geom.Rect {
	g, ok := o.Shape.(Group)
	if !ok {
		return o.Local().TransformRect(o.Shape.Extent())
	}
	if len(g.Children) == 0 {
		return geom.Rect{X: o.X, Y: o.Y}
	}
	rs := make([]geom.Rect, 0, len(g.Children))
	for _, cid := range g.Children {
		rs = append(rs, s.bounds(s.objects[cid]))
	}
	return geom.Union(rs...)
}
