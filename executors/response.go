package executors

import (
	"context"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/graph"
)

// Response renders the configured message template and terminates the
// turn. Reaching a response node is the only successful way out of a
// chatflow.
type Response struct{}

// NewResponse creates a response executor.
func NewResponse() *Response { return &Response{} }

func (r *Response) Kind() graph.Kind { return graph.KindResponse }

// Execute renders the "template" config key (alias "message"). A
// response node without a template echoes the user message.
func (r *Response) Execute(ctx context.Context, config map[string]any, ec *engine.ExecutionContext) (*engine.Result, error) {
	template := stringOpt(config, "template", "")
	if template == "" {
		template = stringOpt(config, "message", "{{input}}")
	}
	return &engine.Result{Output: Render(template, ec)}, nil
}
