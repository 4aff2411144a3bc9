// Package command provides the reversible edits of the drawing editor.
//
// Every type here implements [history.Command]. Constructors validate their
// arguments against the current document and capture everything needed to
// reverse the edit: a delete records the z-index of each removed shape and,
// for nodes, the incident edges at construction time; a resize records the
// full before and after geometry; a distribute computes its per-shape deltas
// once. Execute and Undo then replay those captures, so redo after undo is
// exact no matter what happened in between.
//
// Constructor contract violations (unknown ids, wrong variants, too few
// shapes) return an error with code [errors.ErrCodeInvalidCommand].
//
// Commands only touch the [document.Document] they were built for and its
// graph registry; nothing here reaches for global state.
package command
