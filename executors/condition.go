package executors

import (
	"context"
	"fmt"
	"strings"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/graph"
)

// Predicate decides a condition node's boolean outcome from the turn
// context. Injecting a Predicate replaces the built-in config
// evaluation entirely.
type Predicate func(ctx context.Context, ec *engine.ExecutionContext) (bool, error)

// Condition evaluates a boolean predicate used by the engine to pick
// between labeled outgoing edges.
//
// When no predicate is injected, the executor evaluates a deliberately
// narrow config form:
//
//	source:   "user_message" (default) or the name of a bound variable
//	operator: contains | not_contains | equals | not_equals | prefix | suffix
//	value:    the string compared against
//
// This is a fixed comparison, not an expression language.
type Condition struct {
	predicate Predicate
}

// NewCondition creates a condition executor using the config-driven
// comparison form.
func NewCondition() *Condition { return &Condition{} }

// NewConditionWithPredicate creates a condition executor backed by an
// injected predicate.
func NewConditionWithPredicate(p Predicate) *Condition {
	return &Condition{predicate: p}
}

func (c *Condition) Kind() graph.Kind { return graph.KindCondition }

func (c *Condition) Execute(ctx context.Context, config map[string]any, ec *engine.ExecutionContext) (*engine.Result, error) {
	if c.predicate != nil {
		verdict, err := c.predicate(ctx, ec)
		if err != nil {
			return nil, fmt.Errorf("condition predicate failed: %w", err)
		}
		return &engine.Result{Output: verdict}, nil
	}

	subject, err := resolveSource(config, ec)
	if err != nil {
		return nil, err
	}
	operator := stringOpt(config, "operator", "contains")
	value := stringOpt(config, "value", "")

	verdict, err := compare(subject, operator, value)
	if err != nil {
		return nil, err
	}
	return &engine.Result{Output: verdict}, nil
}

func resolveSource(config map[string]any, ec *engine.ExecutionContext) (string, error) {
	source := stringOpt(config, "source", "user_message")
	switch source {
	case "user_message", "input":
		return ec.UserMessage, nil
	}
	v, ok := ec.Variable(source)
	if !ok {
		return "", fmt.Errorf("condition source %q is not a bound variable", source)
	}
	if s, isString := v.(string); isString {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func compare(subject, operator, value string) (bool, error) {
	switch operator {
	case "contains":
		return strings.Contains(subject, value), nil
	case "not_contains":
		return !strings.Contains(subject, value), nil
	case "equals":
		return subject == value, nil
	case "not_equals":
		return subject != value, nil
	case "prefix":
		return strings.HasPrefix(subject, value), nil
	case "suffix":
		return strings.HasSuffix(subject, value), nil
	default:
		return false, fmt.Errorf("unknown condition operator: %s", operator)
	}
}
