package engine

import (
	"github.com/botweave/chatflow/history"
)

// TurnInput carries the per-turn input handed to the engine by the
// delivery layer.
type TurnInput struct {
	UserMessage string
	SessionID   string
	WorkspaceID string
	// History holds prior turns for the session. When empty and the
	// engine has a history store configured, the engine loads the most
	// recent turns itself.
	History []history.Turn
}

// ExecutionContext is the mutable per-turn state threaded through node
// execution. It is created fresh for every turn and discarded at turn
// end; it is never shared across concurrent turns, so it needs no
// locking. Executors read it; only the engine writes node outputs into
// the variables map.
type ExecutionContext struct {
	TurnID      string
	UserMessage string
	SessionID   string
	WorkspaceID string

	variables map[string]any
	turns     []history.Turn
}

// NewExecutionContext builds the per-turn state for one execution. The
// engine calls this at turn start; executor tests build contexts with it
// directly.
func NewExecutionContext(turnID string, input TurnInput, turns []history.Turn) *ExecutionContext {
	return &ExecutionContext{
		TurnID:      turnID,
		UserMessage: input.UserMessage,
		SessionID:   input.SessionID,
		WorkspaceID: input.WorkspaceID,
		variables:   make(map[string]any),
		turns:       turns,
	}
}

// Variable returns a previously bound node output by name.
func (c *ExecutionContext) Variable(name string) (any, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Variables returns a copy of the variables map.
func (c *ExecutionContext) Variables() map[string]any {
	out := make(map[string]any, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// History returns the prior turns of the session, oldest first.
func (c *ExecutionContext) History() []history.Turn {
	out := make([]history.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// BindOutput stores a node's output under its node id so later templates
// can address it. Variables are write-once per node: re-binding (only
// possible when a cyclic graph bypassed validation) keeps the first
// value.
func (c *ExecutionContext) BindOutput(nodeID string, output any) {
	if _, exists := c.variables[nodeID]; exists {
		return
	}
	c.variables[nodeID] = output
}
