// Package editor ties the drawing core into one editing session.
//
// An [Editor] owns a document, its graph registry, the undo/redo history
// and an event bus, all configured from a [config.Config]. Every mutating
// method builds the matching command from package command and runs it
// through the history, so each call is one undoable step:
//
//	ed := editor.New(editor.Options{Config: cfg})
//	a, _ := ed.AddNode(100, 100, 30, "A")
//	b, _ := ed.AddNode(300, 100, 30, "B")
//	ed.AddEdge(a, b, shape.DirectionForward)
//	ed.Move([]string{a}, 0, 50) // edges re-route
//	ed.Undo()
//
// Editors are not safe for concurrent use. The HTTP server serialises
// access with its own lock.
package editor
