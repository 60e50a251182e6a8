package executors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/botweave/chatflow/engine"
	"github.com/botweave/chatflow/graph"
)

// Credential is the auth material produced by a CredentialResolver,
// already shaped as the header the request should carry.
type Credential struct {
	Header string
	Value  string
}

// CredentialResolver resolves a credential reference from a node config
// into auth material. Decryption and storage are the implementer's
// concern.
type CredentialResolver interface {
	Resolve(ctx context.Context, credentialID string) (Credential, error)
}

// Transport issues one outbound HTTP call. It exists so tests and
// callers can substitute the wire layer without touching the executor.
type Transport interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (status int, respBody []byte, err error)
}

// HTTPTransport is the default Transport over net/http with an optional
// outbound rate limiter.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPTransport creates a transport with the given overall timeout.
// A nil limiter disables rate limiting.
func NewHTTPTransport(timeout time.Duration, limiter *rate.Limiter) *HTTPTransport {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

func (t *HTTPTransport) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// HTTPRequest issues an outbound call per node config. Config keys:
//
//	method         HTTP method (default GET)
//	url            request URL template (required)
//	headers        map of header name to value template
//	body           request body template
//	timeout_ms     per-call timeout in milliseconds
//	credential_id  reference resolved into an auth header
//
// Network and HTTP errors are reported as node failures, never thrown.
type HTTPRequest struct {
	transport Transport
	creds     CredentialResolver
	logger    *zap.Logger
}

// NewHTTPRequest creates an HTTP request executor. creds may be nil when
// no node references credentials.
func NewHTTPRequest(transport Transport, creds CredentialResolver, logger *zap.Logger) *HTTPRequest {
	if transport == nil {
		transport = NewHTTPTransport(0, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPRequest{
		transport: transport,
		creds:     creds,
		logger:    logger.With(zap.String("component", "http_executor")),
	}
}

func (h *HTTPRequest) Kind() graph.Kind { return graph.KindHTTPRequest }

func (h *HTTPRequest) Execute(ctx context.Context, config map[string]any, ec *engine.ExecutionContext) (*engine.Result, error) {
	rawURL, err := requiredString(config, "url")
	if err != nil {
		return nil, err
	}
	url := Render(rawURL, ec)
	method := strings.ToUpper(stringOpt(config, "method", http.MethodGet))

	headers := make(map[string]string)
	for k, v := range stringMapOpt(config, "headers") {
		headers[k] = Render(v, ec)
	}

	var body []byte
	if raw := stringOpt(config, "body", ""); raw != "" {
		body = []byte(Render(raw, ec))
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = "application/json"
		}
	}

	if credID := stringOpt(config, "credential_id", ""); credID != "" {
		if h.creds == nil {
			return nil, fmt.Errorf("node references credential %q but no resolver is configured", credID)
		}
		cred, err := h.creds.Resolve(ctx, credID)
		if err != nil {
			return nil, fmt.Errorf("credential resolution failed: %w", err)
		}
		header := cred.Header
		if header == "" {
			header = "Authorization"
		}
		headers[header] = cred.Value
	}

	if timeoutMS := intOpt(config, "timeout_ms", 0); timeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	status, respBody, err := h.transport.Do(ctx, method, url, headers, body)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	h.logger.Debug("http request completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)

	if status >= 400 {
		return nil, fmt.Errorf("http request returned status %d: %s", status, truncate(string(respBody), 256))
	}

	return &engine.Result{
		Output:   parseBody(respBody),
		Metadata: map[string]any{"status": status},
	}, nil
}

// parseBody decodes JSON response bodies so later nodes can address
// structured data; anything else is passed through as a string.
func parseBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '"' {
		var parsed any
		if err := json.Unmarshal(trimmed, &parsed); err == nil {
			return parsed
		}
	}
	return string(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
