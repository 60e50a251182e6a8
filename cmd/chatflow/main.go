// Command chatflow validates and runs chatflow definitions.
//
// Usage:
//
//	chatflow validate -flow flow.yaml
//	chatflow run -flow flow.yaml -message "hello" [-session s1] [-config config.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/botweave/chatflow/config"
	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/executors"
	"github.com/botweave/chatflow/graph"
	"github.com/botweave/chatflow/history"
	"github.com/botweave/chatflow/llm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "run":
		err = runTurn(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  chatflow validate -flow flow.yaml
  chatflow run -flow flow.yaml -message "..." [-session id] [-config config.yaml]`)
}

func buildGraph(flowPath string) (*graph.Graph, error) {
	if flowPath == "" {
		return nil, fmt.Errorf("-flow is required")
	}
	def, err := graph.LoadFile(flowPath)
	if err != nil {
		return nil, err
	}
	return graph.Build(def.Nodes, def.Edges), nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	flowPath := fs.String("flow", "", "chatflow definition file")
	fs.Parse(args)

	g, err := buildGraph(*flowPath)
	if err != nil {
		return err
	}

	if !g.IsValid() {
		fmt.Println("INVALID")
		for _, msg := range g.Errors() {
			fmt.Println("  -", msg)
		}
		os.Exit(1)
	}

	fmt.Println("VALID")
	fmt.Println("  start:", g.Start())
	fmt.Println("  ends: ", strings.Join(g.EndNodes(), ", "))
	if order, ok := g.TopologicalOrder(); ok {
		fmt.Println("  order:", strings.Join(order, " -> "))
	}
	return nil
}

func runTurn(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	flowPath := fs.String("flow", "", "chatflow definition file")
	message := fs.String("message", "", "user message for this turn")
	session := fs.String("session", "cli", "session id")
	workspace := fs.String("workspace", "", "workspace id")
	configPath := fs.String("config", "", "config file")
	withHistory := fs.Bool("history", false, "load session history from redis")
	fs.Parse(args)

	if *message == "" {
		return fmt.Errorf("-message is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	g, err := buildGraph(*flowPath)
	if err != nil {
		return err
	}
	if !g.IsValid() {
		return g.Err()
	}

	var provider llm.Provider
	if cfg.LLM.BaseURL != "" {
		provider = llm.NewOpenAICompat(llm.OpenAICompatConfig{
			ProviderName: cfg.LLM.Provider,
			APIKey:       cfg.LLM.APIKey,
			BaseURL:      cfg.LLM.BaseURL,
			Timeout:      cfg.LLM.Timeout,
		}, logger)
	}

	var limiter *rate.Limiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
	}
	transport := executors.NewHTTPTransport(cfg.HTTP.Timeout, limiter)
	registry := executors.DefaultRegistry(provider, transport, nil, logger)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMaxIterations(cfg.Engine.MaxIterations),
		engine.WithHistoryLimit(cfg.Engine.HistoryLimit),
		engine.WithNodeTimeout(cfg.Engine.NodeTimeout),
	}
	if *withHistory {
		store, err := history.NewRedisStore(cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, engine.WithHistoryStore(store))
	}

	eng := engine.New(registry, opts...)
	result, err := eng.Execute(context.Background(), g, engine.TurnInput{
		UserMessage: *message,
		SessionID:   *session,
		WorkspaceID: *workspace,
	})
	if err != nil {
		return err
	}

	fmt.Println("state:", result.State)
	fmt.Println("nodes:", strings.Join(result.NodesExecuted, " -> "))
	if result.Success {
		fmt.Println(result.OutputText)
		return nil
	}
	return fmt.Errorf("turn failed: %s", result.Error.Error())
}
