package executors

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/graph"
	"github.com/botweave/chatflow/llm"
)

// LLM renders a configured prompt template and invokes the injected
// inference provider. Config keys:
//
//	model        model identifier passed to the provider
//	prompt       user prompt template (default "{{input}}")
//	system       optional system prompt template
//	temperature  sampling temperature
//	max_tokens   completion token cap
//	timeout_ms   per-call timeout in milliseconds
//
// Inference failures (timeout, auth, rate limit) are reported as node
// failures, never thrown past the executor.
type LLM struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewLLM creates an LLM executor over the given provider.
func NewLLM(provider llm.Provider, logger *zap.Logger) *LLM {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLM{
		provider: provider,
		logger:   logger.With(zap.String("component", "llm_executor")),
	}
}

func (l *LLM) Kind() graph.Kind { return graph.KindLLM }

func (l *LLM) Execute(ctx context.Context, config map[string]any, ec *engine.ExecutionContext) (*engine.Result, error) {
	if l.provider == nil {
		return nil, fmt.Errorf("no inference provider configured")
	}

	prompt := Render(stringOpt(config, "prompt", "{{input}}"), ec)
	var messages []llm.Message
	if system := stringOpt(config, "system", ""); system != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: Render(system, ec)})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	req := &llm.ChatRequest{
		Model:       stringOpt(config, "model", ""),
		Messages:    messages,
		MaxTokens:   intOpt(config, "max_tokens", 0),
		Temperature: float32(floatOpt(config, "temperature", 0)),
	}
	if timeoutMS := intOpt(config, "timeout_ms", 0); timeoutMS > 0 {
		req.Timeout = time.Duration(timeoutMS) * time.Millisecond
	}

	resp, err := l.provider.Completion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llm completion failed: %w", err)
	}

	l.logger.Debug("completion returned",
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return &engine.Result{
		Output: resp.Content,
		Metadata: map[string]any{
			"model":             resp.Model,
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}, nil
}
