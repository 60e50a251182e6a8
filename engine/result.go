package engine

// State is the terminal state of a turn.
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateAborted   State = "aborted"
)

// ExecutionResult is the outcome of one turn.
type ExecutionResult struct {
	// TurnID uniquely identifies this execution.
	TurnID string
	// State is the terminal state: succeeded, failed, or aborted.
	State State
	// OutputText is the rendered response when the turn succeeded.
	OutputText string
	// NodesExecuted lists node ids in execution order.
	NodesExecuted []string
	// TimingsMS maps node id to cumulative execution latency in
	// milliseconds.
	TimingsMS map[string]int64
	// Success reports whether a response node was reached.
	Success bool
	// Error carries the structured failure detail when Success is false.
	Error *ExecutionError
}
