package command

import (
	"errors"

	"github.com/matzehuels/drawgraph/pkg/history"
)

// Batch runs several commands as one undo step.
type Batch struct {
	desc string
	cmds []history.Command
}

// NewBatch returns a macro command. An empty batch is rejected.
func NewBatch(desc string, cmds ...history.Command) (*Batch, error) {
	if len(cmds) == 0 {
		return nil, invalid("batch %q: no commands", desc)
	}
	return &Batch{desc: desc, cmds: cmds}, nil
}

// Execute runs the commands in order. If one fails, those already run are
// undone and the error is returned.
func (c *Batch) Execute() error {
	for i, cmd := range c.cmds {
		if err := cmd.Execute(); err != nil {
			return errors.Join(err, unwind(c.cmds[:i]))
		}
	}
	return nil
}

// Undo reverses the commands in reverse order.
func (c *Batch) Undo() error {
	return unwind(c.cmds)
}

func unwind(cmds []history.Command) error {
	var errs []error
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Batch) Description() string { return c.desc }
