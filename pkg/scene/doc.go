// Package scene implements the canvas object model: an ordered collection of
// text, rectangle, circle, line, image and group nodes.
//
// # Object Model
//
// Every node is an [Object] carrying the common transform and style fields
// (position, scale, rotation, opacity, fill, stroke) and a kind-specific
// [Shape] payload. Shape is a closed union: only [Text], [Rect], [Circle],
// [Line], [Image] and [Group] implement it, so type switches over it are
// exhaustive.
//
// A [Scene] keeps top-level objects in z-order: index 0 is the back-most
// object and the last index is front-most. Group children are not part of
// the top-level order; they are owned by exactly one group, listed in the
// group's [Group.Children], and point back to it through [Object.Parent].
// Child positions are stored in absolute document coordinates. Changes to a
// group's transform are propagated to its descendants so that stored
// positions stay correct.
//
// # Events
//
// Mutations notify subscribers with [Event] values (added, removed,
// modified, restored). The scene never persists or records history itself;
// those are listeners wired by the editor. [Scene.Batch] collapses every
// mutation inside it into a single modified event:
//
//	s.Batch(func() {
//	    for _, id := range ids {
//	        s.Move(id, dx, 0)
//	    }
//	}) // subscribers see exactly one EventModified
//
// # Export Hook
//
// [Scene.Walk] visits nodes in z-order, groups before their children, with
// resolved absolute transforms and bounds. Exporters consume it to produce
// raster, vector or paginated output; [Encode] and [Decode] convert scenes
// to the flat [Record] wire format used by persistence.
package scene
