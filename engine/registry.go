package engine

import (
	"context"
	"sort"

	"github.com/botweave/chatflow/graph"
)

// Result is what a node executor hands back to the engine. Output is the
// node's produced value (a string for trigger/llm/response, a bool for
// condition, decoded JSON for http_request). Metadata carries
// executor-specific detail such as token usage or HTTP status.
type Result struct {
	Output   any
	Metadata map[string]any
}

// NodeExecutor is the uniform contract every node kind implements.
//
// Execute must never escape with an unhandled failure: every error path
// (timeout, bad config, downstream failure) is captured and returned as
// an error value. Config is opaque to the engine; only the executor
// interprets it.
type NodeExecutor interface {
	Kind() graph.Kind
	Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (*Result, error)
}

// Registry maps node kinds to their executors. It is populated once at
// construction and immutable afterwards, so concurrent turns can share
// one Registry without locking. Adding a node kind means implementing
// NodeExecutor and passing it here; the engine itself never changes.
type Registry struct {
	executors map[graph.Kind]NodeExecutor
}

// NewRegistry builds a registry from the given executors. A later
// executor with the same kind replaces an earlier one.
func NewRegistry(executors ...NodeExecutor) *Registry {
	m := make(map[graph.Kind]NodeExecutor, len(executors))
	for _, ex := range executors {
		m[ex.Kind()] = ex
	}
	return &Registry{executors: m}
}

// Lookup returns the executor for a node kind.
func (r *Registry) Lookup(kind graph.Kind) (NodeExecutor, bool) {
	ex, ok := r.executors[kind]
	return ex, ok
}

// Kinds returns the registered node kinds, sorted for stable output.
func (r *Registry) Kinds() []graph.Kind {
	out := make([]graph.Kind, 0, len(r.executors))
	for kind := range r.executors {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
