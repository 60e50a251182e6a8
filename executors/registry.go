package executors

import (
	"go.uber.org/zap"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/llm"
)

// DefaultRegistry wires the five built-in executors into an engine
// registry. provider, transport, and creds may be nil when the chatflow
// never reaches the corresponding node kinds; executing such a node then
// fails the turn, not the process.
func DefaultRegistry(provider llm.Provider, transport Transport, creds CredentialResolver, logger *zap.Logger) *engine.Registry {
	return engine.NewRegistry(
		NewTrigger(),
		NewLLM(provider, logger),
		NewHTTPRequest(transport, creds, logger),
		NewCondition(),
		NewResponse(),
	)
}
