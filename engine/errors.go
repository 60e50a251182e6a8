package engine

import (
	"errors"
	"fmt"

	"github.com/botweave/chatflow/graph"
)

// ErrNilGraph is returned by Execute when called without a graph.
var ErrNilGraph = errors.New("graph cannot be nil")

// ErrNoStartNode is returned by Execute when the graph has no entry
// node; such a graph never passed validation and must not be activated.
var ErrNoStartNode = errors.New("graph has no start node")

// ErrorKind classifies turn-level failures.
type ErrorKind string

const (
	// ErrKindNodeExecution means a specific node's executor failed.
	ErrKindNodeExecution ErrorKind = "node_execution"
	// ErrKindUnknownNodeKind means no executor is registered for the
	// node's kind. Treated as a node execution failure variant.
	ErrKindUnknownNodeKind ErrorKind = "unknown_node_kind"
	// ErrKindBudgetExceeded means the per-turn iteration cap was reached
	// before a response node.
	ErrKindBudgetExceeded ErrorKind = "budget_exceeded"
	// ErrKindDeadEnd means execution ran off the graph without reaching
	// a response node.
	ErrKindDeadEnd ErrorKind = "dead_end"
)

// ExecutionError is the structured failure attached to a failed
// ExecutionResult. It aborts only the current turn; concurrent and
// future turns are unaffected.
type ExecutionError struct {
	Kind     ErrorKind
	NodeID   string
	NodeKind graph.Kind
	Cause    error
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case ErrKindBudgetExceeded:
		return fmt.Sprintf("execution budget exceeded at node %s", e.NodeID)
	case ErrKindUnknownNodeKind:
		return fmt.Sprintf("no executor registered for node %s (kind %s)", e.NodeID, e.NodeKind)
	case ErrKindDeadEnd:
		return fmt.Sprintf("execution ended at node %s without reaching a response node", e.NodeID)
	default:
		return fmt.Sprintf("node %s (kind %s) failed: %v", e.NodeID, e.NodeKind, e.Cause)
	}
}

func (e *ExecutionError) Unwrap() error { return e.Cause }
