// Package history keeps a bounded log of scene snapshots for undo and redo.
//
// The log is a slice of immutable snapshots with a single cursor. Recording
// discards any redo branch past the cursor, appends, and evicts the oldest
// entry once the capacity is exceeded. Undo and redo move the cursor and
// hand back a copy of the snapshot to restore; at either edge they are
// no-ops.
//
// # Usage
//
//	h := history.New(history.DefaultCapacity)
//	h.Record(s.Snapshot()) // after every committed change
//
//	if st, ok := h.Undo(); ok {
//	    s.Restore(st)
//	}
package history

import "github.com/matzehuels/artboard/pkg/scene"

// DefaultCapacity is the number of snapshots kept.
const DefaultCapacity = 50

// Snapshot is one entry in the log.
type Snapshot struct {
	Seq   uint64
	State scene.State
}

// Manager is a bounded undo/redo log. It is not safe for concurrent use.
type Manager struct {
	entries []Snapshot
	current int
	max     int
	seq     uint64
}

// New returns an empty manager. A non-positive capacity selects
// DefaultCapacity.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		entries: make([]Snapshot, 0, capacity),
		current: -1,
		max:     capacity,
	}
}

// Record stores a copy of st as the newest entry and returns its sequence
// number.
func (m *Manager) Record(st scene.State) uint64 {
	if m.current < len(m.entries)-1 {
		clear(m.entries[m.current+1:])
		m.entries = m.entries[:m.current+1]
	}
	m.seq++
	m.entries = append(m.entries, Snapshot{Seq: m.seq, State: st.Clone()})
	if len(m.entries) > m.max {
		m.entries[0] = Snapshot{}
		m.entries = m.entries[1:]
	} else {
		m.current++
	}
	return m.seq
}

// CanUndo reports whether an older snapshot is available.
func (m *Manager) CanUndo() bool { return m.current > 0 }

// CanRedo reports whether a newer snapshot is available.
func (m *Manager) CanRedo() bool { return m.current < len(m.entries)-1 }

// Undo steps back and returns the state to restore.
func (m *Manager) Undo() (scene.State, bool) {
	if !m.CanUndo() {
		return scene.State{}, false
	}
	m.current--
	return m.entries[m.current].State.Clone(), true
}

// Redo steps forward and returns the state to restore.
func (m *Manager) Redo() (scene.State, bool) {
	if !m.CanRedo() {
		return scene.State{}, false
	}
	m.current++
	return m.entries[m.current].State.Clone(), true
}

// Current returns the snapshot at the cursor.
func (m *Manager) Current() (Snapshot, bool) {
	if m.current < 0 {
		return Snapshot{}, false
	}
	s := m.entries[m.current]
	s.State = s.State.Clone()
	return s, true
}

// Clear empties the log. Sequence numbers keep increasing.
func (m *Manager) Clear() {
	clear(m.entries)
	m.entries = m.entries[:0]
	m.current = -1
}

// Reset clears the log and records st as its only entry.
func (m *Manager) Reset(st scene.State) {
	m.Clear()
	m.Record(st)
}

// Len returns the number of snapshots held.
func (m *Manager) Len() int { return len(m.entries) }

// Index returns the cursor position, -1 when empty.
func (m *Manager) Index() int { return m.current }

// Counts returns how many undo and redo steps are available.
func (m *Manager) Counts() (undo, redo int) {
	if m.current < 0 {
		return 0, 0
	}
	return m.current, len(m.entries) - 1 - m.current
}
