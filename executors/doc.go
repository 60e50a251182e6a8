// Package executors implements the built-in node executors: trigger,
// llm, http_request, condition, and response. Each implements the
// engine.NodeExecutor contract; external capabilities (inference,
// credential resolution, outbound HTTP) are injected as interfaces.
package executors
