// Package dialogmesh provides a high-level façade over the dialogue
// processor and its services (providers, prompt, decoder, session storage
// and logging). Most applications interact with this package by:
//  1. Creating a DialogMesh via New() around a completion engine (optionally
//     overriding the default providers and in-memory services), or via
//     NewFromConfig() from a loaded configuration
//  2. Calling Process once per user utterance
//  3. Calling Close on shutdown, which waits for pending effects
//
// All defaults are safe for local development and testing: the system state
// provider, the built-in volume directives, the default prompt template, the
// function-call decoder and an in-memory session store.
package dialogmesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/dialogmesh/config"
	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/decoder"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/model/anthropic"
	"github.com/hupe1980/dialogmesh/model/openai"
	"github.com/hupe1980/dialogmesh/processor"
	"github.com/hupe1980/dialogmesh/prompt"
	"github.com/hupe1980/dialogmesh/provider"
	"github.com/hupe1980/dialogmesh/session"
	"github.com/hupe1980/dialogmesh/session/sqlite"
)

// Options configures the DialogMesh instance.
type Options struct {
	// StateProviders default to the system state provider.
	StateProviders []core.StateProvider
	// FunctionProviders default to the built-in volume directives.
	FunctionProviders []core.FunctionBinding
	// PromptGenerator defaults to the built-in template.
	PromptGenerator core.PromptGenerator
	// SessionStore defaults to an in-memory store.
	SessionStore core.SessionStore
	// Decoder defaults to the function-call decoder.
	Decoder decoder.Decoder
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DialogMesh is the high-level façade aggregating the processor and its services.
type DialogMesh struct {
	opts      Options
	processor *processor.Processor
	closers   []io.Closer
}

// New creates a new DialogMesh around a completion engine. Any unset service
// is initialized with its default.
func New(m model.Model, optFns ...func(o *Options)) *DialogMesh {
	opts := Options{
		StateProviders:    []core.StateProvider{provider.NewSystemStateProvider(nil)},
		FunctionProviders: []core.FunctionBinding{core.BindDirective(provider.NewVolumeDirectiveProvider())},
		PromptGenerator:   prompt.NewDefaultGenerator(),
		SessionStore:      session.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Decoder == nil {
		opts.Decoder = decoder.NewTokenDecoder(func(o *decoder.Options) { o.Logger = opts.Logger })
	}

	p := processor.New(m, func(o *processor.Options) {
		o.StateProviders = opts.StateProviders
		o.FunctionProviders = opts.FunctionProviders
		o.PromptGenerator = opts.PromptGenerator
		o.SessionStore = opts.SessionStore
		o.Decoder = opts.Decoder
		o.Logger = opts.Logger
	})

	return &DialogMesh{opts: opts, processor: p}
}

// NewFromConfig builds a DialogMesh from configuration. The caller owns the
// result and must Close it.
func NewFromConfig(cfg *config.Config, logger logging.Logger) (*DialogMesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger = logging.OrNoOp(logger)
	if dl, ok := logger.(*logging.DialogLogger); ok {
		logger = dl.WithContext("completion_provider", cfg.Completion.Provider)
	}

	m := NewModel(cfg.Completion)

	gen, err := newPromptGenerator(cfg.Prompt)
	if err != nil {
		return nil, err
	}

	dec, err := decoder.New(decoder.Format(cfg.Decoder.Format), func(o *decoder.Options) { o.Logger = logger })
	if err != nil {
		return nil, err
	}

	store, closer, err := newSessionStore(cfg.Session, logger)
	if err != nil {
		return nil, err
	}

	states, functions := newProviders(cfg.Providers)

	dm := New(m, func(o *Options) {
		o.StateProviders = states
		o.FunctionProviders = functions
		o.PromptGenerator = gen
		o.SessionStore = store
		o.Decoder = dec
		o.Logger = logger
	})
	if closer != nil {
		dm.closers = append(dm.closers, closer)
	}

	logger.Info("dialogmesh.configured",
		"model", m.Info().Name,
		"provider", m.Info().Provider,
		"state_providers", len(states),
		"function_providers", len(functions),
		"decoder", cfg.Decoder.Format,
		"session_backend", cfg.Session.Backend,
	)
	return dm, nil
}

// NewModel builds the completion engine selected by cfg.
func NewModel(cfg config.CompletionConfig) model.Model {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = sdkanthropic.Model(cfg.Model)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
		})
	default:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
		})
	}
}

func newPromptGenerator(cfg config.PromptConfig) (core.PromptGenerator, error) {
	if cfg.TemplatePath == "" {
		return prompt.NewDefaultGenerator(), nil
	}
	return prompt.NewTemplateGeneratorFromFile(cfg.TemplatePath)
}

func newSessionStore(cfg config.SessionConfig, logger logging.Logger) (core.SessionStore, io.Closer, error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		if cfg.PruneAfter > 0 {
			n, err := s.Prune(context.Background(), time.Now().Add(-cfg.PruneAfter))
			if err != nil {
				s.Close()
				return nil, nil, err
			}
			logger.Info("session.pruned", "removed", n, "prune_after", cfg.PruneAfter.String())
		}
		return s, s, nil
	default:
		return session.NewInMemoryStore(), nil, nil
	}
}

// newProviders lists built-in providers first, then remote ones in
// configuration order.
func newProviders(cfg config.ProvidersConfig) ([]core.StateProvider, []core.FunctionBinding) {
	remoteOpts := func(o *provider.RemoteOptions) {
		if cfg.Timeout > 0 {
			o.Timeout = cfg.Timeout
		}
	}

	var states []core.StateProvider
	if cfg.SystemState {
		states = append(states, provider.NewSystemStateProvider(nil))
	}
	for _, url := range cfg.StateURLs {
		states = append(states, provider.NewRemoteStateProvider(url, remoteOpts))
	}

	var functions []core.FunctionBinding
	if cfg.VolumeDirectives {
		functions = append(functions, core.BindDirective(provider.NewVolumeDirectiveProvider()))
	}
	for _, url := range cfg.FunctionURLs {
		functions = append(functions, core.BindEffect(provider.NewRemoteFunctionProvider(url, remoteOpts)))
	}
	return states, functions
}

// Process runs one dialogue turn.
func (m *DialogMesh) Process(ctx context.Context, req core.Request) (core.Response, error) {
	return m.processor.Process(ctx, req)
}

// Processor exposes the underlying processor.
func (m *DialogMesh) Processor() *processor.Processor { return m.processor }

// Close stops starting effects, waits for pending ones (bounded by ctx) and
// releases owned stores. It is safe to call while turns are in flight.
func (m *DialogMesh) Close(ctx context.Context) error {
	errs := []error{m.processor.Close(ctx)}
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
