package graph

// Kind identifies the type of work a node performs. The engine dispatches
// on Kind; the set is extensible by registering additional executors.
type Kind string

const (
	// KindTrigger is the graph entry point; it passes the user message through.
	KindTrigger Kind = "trigger"
	// KindLLM performs an LLM completion call.
	KindLLM Kind = "llm"
	// KindHTTPRequest performs an outbound HTTP call.
	KindHTTPRequest Kind = "http_request"
	// KindCondition evaluates a predicate and picks an outgoing branch.
	KindCondition Kind = "condition"
	// KindResponse renders the final answer and terminates the turn.
	KindResponse Kind = "response"
)

// Node is a single typed unit of work in a chatflow. Config is opaque to
// the graph layer; only the executor for the node's kind interprets it.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Kind   Kind           `json:"kind" yaml:"kind"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Edge is a directed connection between two nodes. BranchLabel is only
// meaningful on edges leaving a condition node, where it is "true" or
// "false".
type Edge struct {
	Source      string `json:"source" yaml:"source"`
	Target      string `json:"target" yaml:"target"`
	BranchLabel string `json:"branch_label,omitempty" yaml:"branch_label,omitempty"`
}
