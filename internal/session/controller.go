package session

import "context"

// Controller drives a State from key events. A submitted query runs to
// completion inside HandleKey, so no other key is handled while it is in flight.
type Controller struct {
	State        *State
	Orchestrator *Orchestrator
}

// NewController wires a fresh state to orch
func NewController(state *State, orch *Orchestrator) *Controller {
	if state == nil {
		state = NewState()
	}
	if orch == nil {
		orch = &Orchestrator{}
	}
	return &Controller{State: state, Orchestrator: orch}
}

// HandleKey applies ev and reports whether the user asked to quit
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) (quit bool) {
	cmd := Dispatch(c.State, ev)
	switch cmd.Kind {
	case CommandQuit:
		return true
	case CommandSubmit:
		c.Orchestrator.Execute(ctx, c.State, cmd.Query)
		if !cmd.KeepEditing {
			c.State.ToggleMode()
		}
	}
	return false
}
