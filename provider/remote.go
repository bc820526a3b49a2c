package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/dialogmesh/core"
)

// DefaultRemoteTimeout bounds a single remote provider request.
const DefaultRemoteTimeout = 10 * time.Second

// maxRemoteBody caps the size of a provider response body.
const maxRemoteBody = 4 << 20

// RemoteOptions configures the HTTP providers.
type RemoteOptions struct {
	// HTTPClient performs the requests. Defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
}

func buildRemoteOptions(optFns []func(o *RemoteOptions)) RemoteOptions {
	opts := RemoteOptions{Timeout: DefaultRemoteTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return opts
}

type remoteEndpoint struct {
	url    string
	client *http.Client
}

func (e remoteEndpoint) name() string { return fmt.Sprintf("remote{%s}", e.url) }

// do sends body (nil for GET) and decodes a JSON response into out (nil to discard).
func (e remoteEndpoint) do(ctx context.Context, method string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, e.url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, e.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, e.url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// RemoteStateProvider fetches state facts from an HTTP endpoint.
//
// Each turn it POSTs {"context": <session>} and expects a JSON object mapping
// names to {"description", "value"}.
type RemoteStateProvider struct {
	endpoint remoteEndpoint
}

// NewRemoteStateProvider creates a RemoteStateProvider for url.
func NewRemoteStateProvider(url string, optFns ...func(o *RemoteOptions)) *RemoteStateProvider {
	opts := buildRemoteOptions(optFns)
	return &RemoteStateProvider{endpoint: remoteEndpoint{url: url, client: opts.HTTPClient}}
}

// Name implements core.StateProvider.
func (p *RemoteStateProvider) Name() string { return p.endpoint.name() }

// State implements core.StateProvider.
func (p *RemoteStateProvider) State(ctx context.Context, sess core.SessionContext) (core.State, error) {
	var st core.State
	if err := p.endpoint.do(ctx, http.MethodPost, map[string]any{"context": sess}, &st); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("decode response: state must be an object")
	}
	return st, nil
}

// RemoteFunctionProvider exposes actions served by an HTTP endpoint.
//
// GET returns the capability schema (a JSON object of action descriptors);
// calls are POSTed as {"sessionContext", "name", "parameters"}. Calls are
// effects: the response body is ignored, only the status is checked.
type RemoteFunctionProvider struct {
	endpoint remoteEndpoint
}

// NewRemoteFunctionProvider creates a RemoteFunctionProvider for url.
func NewRemoteFunctionProvider(url string, optFns ...func(o *RemoteOptions)) *RemoteFunctionProvider {
	opts := buildRemoteOptions(optFns)
	return &RemoteFunctionProvider{endpoint: remoteEndpoint{url: url, client: opts.HTTPClient}}
}

// Name implements core.FunctionProvider.
func (p *RemoteFunctionProvider) Name() string { return p.endpoint.name() }

// Functions implements core.FunctionProvider.
func (p *RemoteFunctionProvider) Functions(ctx context.Context, _ core.SessionContext) (core.Functions, error) {
	var fns core.Functions
	if err := p.endpoint.do(ctx, http.MethodGet, nil, &fns); err != nil {
		return nil, err
	}
	if fns == nil {
		return nil, fmt.Errorf("decode response: functions must be an object")
	}
	return fns, nil
}

// CallFunction implements core.EffectProvider.
func (p *RemoteFunctionProvider) CallFunction(ctx context.Context, sess core.SessionContext, name string, args core.Arguments) error {
	body := struct {
		SessionContext core.SessionContext `json:"sessionContext"`
		Name           string              `json:"name"`
		Parameters     core.Arguments      `json:"parameters"`
	}{sess, name, args}
	return p.endpoint.do(ctx, http.MethodPost, body, nil)
}
