package history

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/event"
)

// DefaultLimit is the default depth of each stack.
const DefaultLimit = 100

// Command is a reversible edit.
type Command interface {
	// Execute applies the edit. It is also called for redo.
	Execute() error
	// Undo reverses a previous Execute.
	Undo() error
	// Description is a short human-readable summary, e.g. "Move 3 shapes".
	Description() string
}

// State summarises which directions are available.
type State int

const (
	Clean State = iota
	HasUndo
	HasRedo
	HasBoth
)

func (s State) String() string {
	switch s {
	case HasUndo:
		return "has-undo"
	case HasRedo:
		return "has-redo"
	case HasBoth:
		return "has-both"
	default:
		return "clean"
	}
}

// Options configures a [History]. The zero value is usable.
type Options struct {
	// Limit bounds each stack; zero or less means DefaultLimit.
	Limit int
	// Bus receives history:changed events. It may be nil.
	Bus *event.Bus
	// Logger receives debug output. Nil means log.Default().
	Logger *log.Logger
}

// History is a pair of bounded command stacks. It is not safe for concurrent
// use.
type History struct {
	undo   []Command
	redo   []Command
	limit  int
	bus    *event.Bus
	logger *log.Logger
}

// New returns an empty history.
func New(opts Options) *History {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &History{limit: opts.Limit, bus: opts.Bus, logger: opts.Logger}
}

// Limit returns the stack bound.
func (h *History) Limit() int { return h.limit }

// Execute runs cmd and records it. The redo stack is cleared. If cmd fails
// nothing is recorded.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		h.logger.Debug("command failed", "command", cmd.Description(), "err", err)
		return err
	}
	h.undo = h.push(h.undo, cmd)
	h.redo = nil
	h.logger.Debug("executed", "command", cmd.Description(), "undo", len(h.undo))
	h.changed()
	return nil
}

// Undo reverses the most recent command. It is a no-op when there is
// nothing to undo.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return nil
	}
	cmd := h.undo[len(h.undo)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = h.push(h.redo, cmd)
	h.logger.Debug("undone", "command", cmd.Description())
	h.changed()
	return nil
}

// Redo re-applies the most recently undone command. It is a no-op when
// there is nothing to redo.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return nil
	}
	cmd := h.redo[len(h.redo)-1]
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = h.push(h.undo, cmd)
	h.logger.Debug("redone", "command", cmd.Description())
	h.changed()
	return nil
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// State returns the combined undo/redo availability.
func (h *History) State() State {
	switch {
	case h.CanUndo() && h.CanRedo():
		return HasBoth
	case h.CanUndo():
		return HasUndo
	case h.CanRedo():
		return HasRedo
	default:
		return Clean
	}
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
	h.changed()
}

// UndoDescription describes the command Undo would reverse, or "".
func (h *History) UndoDescription() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Description()
}

// RedoDescription describes the command Redo would re-apply, or "".
func (h *History) RedoDescription() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].Description()
}

// Len returns the depth of the undo stack.
func (h *History) Len() int { return len(h.undo) }

// Entries returns the descriptions on both stacks, most recent first.
func (h *History) Entries() (undo, redo []string) {
	for i := len(h.undo) - 1; i >= 0; i-- {
		undo = append(undo, h.undo[i].Description())
	}
	for i := len(h.redo) - 1; i >= 0; i-- {
		redo = append(redo, h.redo[i].Description())
	}
	return undo, redo
}

func (h *History) push(stack []Command, cmd Command) []Command {
	stack = append(stack, cmd)
	if over := len(stack) - h.limit; over > 0 {
		clear(stack[:over])
		stack = stack[over:]
	}
	return stack
}

func (h *History) changed() {
	h.bus.Publish(event.HistoryChanged, event.HistoryChange{CanUndo: h.CanUndo(), CanRedo: h.CanRedo()})
}
