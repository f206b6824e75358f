// Package editor wires the canvas components into an editing session.
//
// An [Editor] owns a scene, a viewport, the history log and the derived
// views a user interface draws (layer list, selection, smart guides, ruler
// guides). Pointer and keyboard input arrive in screen coordinates and are
// dispatched to the active [Tool].
//
// # Commit Model
//
// Every committed scene change records one history snapshot and schedules
// a debounced autosave. An add, remove or batched operation commits once;
// a drag commits once when the pointer is released, no matter how many
// moves it produced. Undo and redo restore a snapshot without recording a
// new one.
//
// # Errors
//
// Selection-dependent operations (align, distribute, group, ungroup) are
// silent no-ops on an unsuitable selection and report whether they did
// anything. Only [Editor.AddImage] surfaces a RESOURCE_LOAD error.
//
// An Editor is not safe for concurrent use; call it from one goroutine.
package editor
