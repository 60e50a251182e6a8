// Package engine executes a validated chatflow graph once per
// conversational turn.
//
// The engine walks nodes from the graph's start, dispatching each
// through a Registry of NodeExecutor implementations and threading an
// ExecutionContext that accumulates node outputs as addressable
// variables. A turn ends when a response node produces the final answer,
// when a node fails, or when the iteration cap fires.
//
// A single turn is strictly sequential; many turns may execute
// concurrently against the same Engine, Registry, and Graph because all
// shared state is read-only and each turn owns its own context.
package engine
