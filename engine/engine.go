package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/botweave/chatflow/graph"
	"github.com/botweave/chatflow/history"
	"github.com/botweave/chatflow/internal/metrics"
)

const (
	// DefaultMaxIterations bounds a turn regardless of validation gaps.
	DefaultMaxIterations = 50
	// DefaultHistoryLimit bounds the prior turns loaded per execution.
	DefaultHistoryLimit = 20
)

// Engine walks a validated Graph once per conversational turn,
// dispatching nodes through the Registry and threading an
// ExecutionContext. One Engine serves many concurrent turns: the
// Registry and Graph are read-only, and every turn owns its own context.
type Engine struct {
	registry      *Registry
	logger        *zap.Logger
	tracer        trace.Tracer
	metrics       *metrics.Collector
	historyStore  history.Store
	historyLimit  int
	maxIterations int
	nodeTimeout   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxIterations sets the per-turn iteration cap.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithHistoryStore lets the engine load prior turns for sessions whose
// input carries no history.
func WithHistoryStore(store history.Store) Option {
	return func(e *Engine) { e.historyStore = store }
}

// WithHistoryLimit bounds how many prior turns are loaded per execution.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithMetrics records turn and node metrics on the given collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithTracer emits a span per turn and per node.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithNodeTimeout bounds each node dispatch with a context deadline, as
// a backstop for executors whose own timeouts are misconfigured.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.nodeTimeout = d }
}

// New creates an execution engine over the given registry.
func New(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:      registry,
		logger:        zap.NewNop(),
		maxIterations: DefaultMaxIterations,
		historyLimit:  DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "chatflow_engine"))
	return e
}

// Execute runs one turn against the graph. The error return is reserved
// for caller misuse (nil graph, graph without a start node); every
// turn-level failure is reported inside the result with a structured
// ExecutionError so one bad node cannot take down the process.
func (e *Engine) Execute(ctx context.Context, g *graph.Graph, input TurnInput) (*ExecutionResult, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	start := g.Start()
	if start == "" {
		return nil, ErrNoStartNode
	}

	turnID := uuid.NewString()
	res := &ExecutionResult{
		TurnID:    turnID,
		State:     StateRunning,
		TimingsMS: make(map[string]int64),
	}

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "chatflow.turn",
			trace.WithAttributes(
				attribute.String("turn.id", turnID),
				attribute.String("session.id", input.SessionID),
			))
		defer span.End()
	}

	ec := NewExecutionContext(turnID, input, e.loadHistory(ctx, input))
	logger := e.logger.With(zap.String("turn_id", turnID), zap.String("session_id", input.SessionID))
	logger.Debug("starting turn", zap.String("start_node", start))

	turnStart := time.Now()
	current := start
	iterations := 0

	for current != "" && iterations < e.maxIterations {
		iterations++

		node, ok := g.Node(current)
		if !ok {
			res.fail(&ExecutionError{
				Kind:   ErrKindNodeExecution,
				NodeID: current,
				Cause:  fmt.Errorf("node %s not present in graph", current),
			})
			break
		}
		res.NodesExecuted = append(res.NodesExecuted, current)

		executor, ok := e.registry.Lookup(node.Kind)
		if !ok {
			res.fail(&ExecutionError{Kind: ErrKindUnknownNodeKind, NodeID: node.ID, NodeKind: node.Kind})
			break
		}

		nodeStart := time.Now()
		out, err := e.dispatch(ctx, executor, node, ec)
		elapsed := time.Since(nodeStart)
		res.TimingsMS[node.ID] += elapsed.Milliseconds()
		e.metrics.ObserveNode(string(node.Kind), statusLabel(err), elapsed)

		if err != nil {
			logger.Warn("node failed",
				zap.String("node_id", node.ID),
				zap.String("node_kind", string(node.Kind)),
				zap.Duration("duration", elapsed),
				zap.Error(err),
			)
			res.fail(&ExecutionError{Kind: ErrKindNodeExecution, NodeID: node.ID, NodeKind: node.Kind, Cause: err})
			break
		}

		logger.Debug("node executed",
			zap.String("node_id", node.ID),
			zap.String("node_kind", string(node.Kind)),
			zap.Duration("duration", elapsed),
		)

		if node.Kind == graph.KindResponse {
			res.OutputText = outputText(out.Output)
			res.State = StateSucceeded
			res.Success = true
			break
		}

		ec.BindOutput(node.ID, out.Output)

		next, err := nextNode(g, node, out.Output)
		if err != nil {
			res.fail(&ExecutionError{Kind: ErrKindNodeExecution, NodeID: node.ID, NodeKind: node.Kind, Cause: err})
			break
		}
		current = next
	}

	if res.State == StateRunning {
		if current != "" {
			// Exited via the iteration cap.
			res.State = StateAborted
			res.Error = &ExecutionError{Kind: ErrKindBudgetExceeded, NodeID: current}
		} else {
			last := ""
			if len(res.NodesExecuted) > 0 {
				last = res.NodesExecuted[len(res.NodesExecuted)-1]
			}
			res.fail(&ExecutionError{Kind: ErrKindDeadEnd, NodeID: last})
		}
	}

	total := time.Since(turnStart)
	e.metrics.ObserveTurn(string(res.State), total)
	logger.Info("turn finished",
		zap.String("state", string(res.State)),
		zap.Int("nodes_executed", len(res.NodesExecuted)),
		zap.Duration("duration", total),
	)
	return res, nil
}

// dispatch runs one executor with panic containment, an optional
// per-node deadline, and an optional span.
func (e *Engine) dispatch(ctx context.Context, executor NodeExecutor, node graph.Node, ec *ExecutionContext) (out *Result, err error) {
	if e.nodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.nodeTimeout)
		defer cancel()
	}

	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "chatflow.node",
			trace.WithAttributes(
				attribute.String("node.id", node.ID),
				attribute.String("node.kind", string(node.Kind)),
			))
		defer func() {
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()

	out, err = executor.Execute(ctx, node.Config, ec)
	if err == nil && out == nil {
		out = &Result{}
	}
	return out, err
}

// nextNode picks the node to execute after the given one. Condition
// nodes route by branch label; other nodes follow their single outgoing
// edge, first by declaration order if the graph slipped past validation
// with several.
func nextNode(g *graph.Graph, node graph.Node, output any) (string, error) {
	if node.Kind == graph.KindCondition {
		verdict, ok := output.(bool)
		if !ok {
			return "", fmt.Errorf("condition node produced %T, want bool", output)
		}
		label := strconv.FormatBool(verdict)
		for _, edge := range g.OutgoingEdges(node.ID) {
			if edge.BranchLabel == label {
				return edge.Target, nil
			}
		}
		return "", fmt.Errorf("no outgoing edge labeled %q", label)
	}

	targets := g.Adjacency(node.ID)
	if len(targets) == 0 {
		return "", nil
	}
	return targets[0], nil
}

// loadHistory resolves the prior turns for the context. History is a
// best-effort read: an unavailable store degrades the turn to empty
// history instead of failing it.
func (e *Engine) loadHistory(ctx context.Context, input TurnInput) []history.Turn {
	if len(input.History) > 0 {
		turns := input.History
		if len(turns) > e.historyLimit {
			turns = turns[len(turns)-e.historyLimit:]
		}
		return turns
	}
	if e.historyStore == nil || input.SessionID == "" {
		return nil
	}
	turns, err := e.historyStore.Recent(ctx, input.SessionID, e.historyLimit)
	if err != nil {
		e.logger.Warn("history load failed, continuing without history",
			zap.String("session_id", input.SessionID),
			zap.Error(err),
		)
		return nil
	}
	return turns
}

func (r *ExecutionResult) fail(err *ExecutionError) {
	r.State = StateFailed
	r.Success = false
	r.Error = err
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func outputText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
