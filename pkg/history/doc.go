// Package history implements bounded undo/redo over reversible commands.
//
// # Overview
//
// A [Command] knows how to apply itself and how to take itself back. The
// [History] owns two stacks: executing a command pushes it on the undo stack
// and discards the redo stack; undo moves the top command across, redo moves
// it back. Both stacks are bounded (100 entries by default) and silently
// evict their oldest entry when full.
//
// Commands capture everything they need to reverse themselves when they are
// constructed, not when they execute. Redo therefore replays exactly the
// same change even if the document moved on in between, and an undo that
// follows a redo lands on the same state as the first undo did.
//
// # Notifications
//
// Every change to either stack publishes [event.HistoryChanged] with the
// current CanUndo/CanRedo flags so that toolbars and front ends can update.
//
// # Errors
//
// A command that fails to execute is not recorded. A command that fails to
// undo or redo stays on the stack it was taken from and the error is
// returned. Undo and redo on an empty stack are no-ops.
package history
