package executors

import (
	"context"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/graph"
)

// Trigger is the graph entry point: it passes the user message through
// as its output.
type Trigger struct{}

// NewTrigger creates a trigger executor.
func NewTrigger() *Trigger { return &Trigger{} }

func (t *Trigger) Kind() graph.Kind { return graph.KindTrigger }

func (t *Trigger) Execute(ctx context.Context, config map[string]any, ec *engine.ExecutionContext) (*engine.Result, error) {
	return &engine.Result{Output: ec.UserMessage}, nil
}
