package scene

import "maps"

// State is a detached deep copy of a scene: the top-level z-order plus every
// object, including group descendants.
type State struct {
	Order   []string
	Objects map[string]*Object
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	out := State{
		Order:   append([]string(nil), st.Order...),
		Objects: make(map[string]*Object, len(st.Objects)),
	}
	for id, o := range st.Objects {
		out.Objects[id] = o.Clone()
	}
	return out
}

// Len returns the number of objects at any depth.
func (st State) Len() int {
	return len(st.Objects)
}

// Snapshot returns a deep copy of the scene state.
func (s *Scene) Snapshot() State {
	return State{Order: s.order, Objects: s.objects}.Clone()
}

// Restore replaces the scene content with a copy of st and emits
// EventRestored.
func (s *Scene) Restore(st State) {
	cp := st.Clone()
	clear(s.objects)
	maps.Copy(s.objects, cp.Objects)
	s.order = cp.Order
	s.emit(EventRestored, cp.Order...)
}

// Clear removes every object.
func (s *Scene) Clear() {
	if len(s.objects) == 0 {
		return
	}
	ids := s.order
	clear(s.objects)
	s.order = nil
	s.emit(EventRemoved, ids...)
}
