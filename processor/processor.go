package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/decoder"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/prompt"
	"github.com/hupe1980/dialogmesh/provider"
	"github.com/hupe1980/dialogmesh/session"
	"golang.org/x/sync/errgroup"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// StateProviders contribute facts, in priority order.
	StateProviders []core.StateProvider
	// FunctionProviders contribute actions, in priority order.
	FunctionProviders []core.FunctionBinding
	// PromptGenerator renders the system prompt.
	PromptGenerator core.PromptGenerator
	// SessionStore persists conversation histories.
	SessionStore core.SessionStore
	// Decoder interprets raw completions.
	Decoder decoder.Decoder
	// Logging services.
	Logger logging.Logger
}

// completionLogger is implemented by loggers with a dedicated completion
// record (logging.DialogLogger).
type completionLogger interface {
	LogCompletion(model string, tokens int, dur time.Duration, success bool, err error)
}

// Processor runs dialogue turns. Its provider lists are fixed at
// construction; public methods are safe for concurrent use. Concurrent
// turns on one session are not serialized: the last save wins.
type Processor struct {
	model           model.Model
	stateProviders  []core.StateProvider
	functionBinds   []core.FunctionBinding
	promptGenerator core.PromptGenerator
	sessionStore    core.SessionStore
	decoder         decoder.Decoder
	dispatcher      *Dispatcher
	logger          logging.Logger
}

// New constructs a Processor around a completion engine with optional overrides.
func New(m model.Model, optFns ...func(o *Options)) *Processor {
	opts := Options{
		PromptGenerator: prompt.NewDefaultGenerator(),
		SessionStore:    session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)
	if dl, ok := logger.(*logging.DialogLogger); ok {
		logger = dl.WithComponent("processor")
	}
	if opts.Decoder == nil {
		opts.Decoder = decoder.NewTokenDecoder(func(o *decoder.Options) { o.Logger = logger })
	}

	return &Processor{
		model:           m,
		stateProviders:  append([]core.StateProvider(nil), opts.StateProviders...),
		functionBinds:   append([]core.FunctionBinding(nil), opts.FunctionProviders...),
		promptGenerator: opts.PromptGenerator,
		sessionStore:    opts.SessionStore,
		decoder:         opts.Decoder,
		dispatcher:      NewDispatcher(logger),
		logger:          logger,
	}
}

// Process runs one turn. A request without session id starts a new session.
func (p *Processor) Process(ctx context.Context, req core.Request) (core.Response, error) {
	start := time.Now()
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = core.NewSessionID()
	}
	sess := core.SessionContext{ID: sessionID, Biometry: req.Biometry}
	log, sid := p.turnLogger(sessionID)
	log.Info("turn.start", append(sid, "text", req.Text)...)

	history, _, err := p.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return core.Response{}, fmt.Errorf("load history: %w", err)
	}
	history = append(history, core.NewUserMessage(req.Text))

	state, actions := p.gather(ctx, log, sess)
	fillTurnFacts(state, sess)

	instructions, err := p.promptGenerator.Render(state, actions.Functions())
	if err != nil {
		return core.Response{}, fmt.Errorf("render prompt: %w", err)
	}
	log.Debug("turn.prompt", append(sid, "prompt", instructions)...)

	completion, err := p.complete(ctx, log, instructions, history)
	if err != nil {
		return core.Response{}, err
	}
	log.Info("turn.completion", append(sid, "text", completion.Text)...)

	history = append(history, core.NewAssistantMessage(completion.Text))
	if err := p.sessionStore.Save(ctx, sessionID, history); err != nil {
		return core.Response{}, fmt.Errorf("save history: %w", err)
	}

	structured := p.decoder.Decode(completion.Text)
	directives := p.dispatcher.Dispatch(ctx, sess, actions, structured.Calls)

	log.Info("turn.done", append(sid,
		"calls", len(structured.Calls),
		"directives", len(directives),
		"require_more_input", structured.RequireMoreInput,
		"duration_ms", time.Since(start).Milliseconds(),
	)...)

	return core.Response{
		Text:             structured.Text,
		RequireMoreInput: structured.RequireMoreInput,
		SessionID:        sessionID,
		Directives:       directives,
	}, nil
}

// turnLogger binds the session to a DialogLogger. Other loggers get the
// session id as an explicit attribute, returned for prefixing.
func (p *Processor) turnLogger(sessionID string) (logging.Logger, []any) {
	if dl, ok := p.logger.(*logging.DialogLogger); ok {
		return dl.WithSession(sessionID), nil
	}
	return p.logger, []any{"session_id", sessionID}
}

// gather aggregates state and actions in parallel.
func (p *Processor) gather(ctx context.Context, log logging.Logger, sess core.SessionContext) (core.State, core.Actions) {
	if dl, ok := log.(*logging.DialogLogger); ok {
		defer dl.StartTimer("turn.gather")()
	}
	var (
		state   core.State
		actions core.Actions
		eg      errgroup.Group
	)
	eg.Go(func() error {
		state = provider.AggregateState(ctx, p.logger, p.stateProviders, sess)
		return nil
	})
	eg.Go(func() error {
		actions = provider.AggregateActions(ctx, p.logger, p.functionBinds, sess)
		return nil
	})
	_ = eg.Wait()
	return state, actions
}

func (p *Processor) complete(ctx context.Context, log logging.Logger, instructions string, history []core.Message) (model.Response, error) {
	start := time.Now()
	resp, err := p.model.Complete(ctx, model.Request{Instructions: instructions, History: history})
	if l, ok := log.(completionLogger); ok {
		tokens := 0
		if resp.Usage != nil {
			tokens = resp.Usage.TotalTokens
		}
		l.LogCompletion(p.model.Info().Name, tokens, time.Since(start), err == nil, err)
	}
	if err != nil {
		return model.Response{}, fmt.Errorf("completion: %w", err)
	}
	return resp, nil
}

// fillTurnFacts writes the caller facts of this turn over provider values.
func fillTurnFacts(state core.State, sess core.SessionContext) {
	state[provider.StatePersonGender] = core.StateEntry{
		Description: "gender of person who talked to you",
		Value:       orUnknown(sess.Biometry.GenderClass),
	}
	state[provider.StatePersonAge] = core.StateEntry{
		Description: "age of person who talked to you",
		Value:       orUnknown(sess.Biometry.AgeClass),
	}
	state[provider.StatePersonName] = core.StateEntry{
		Description: "name of person who talked to you or 'unknown' if not enrolled yet",
		Value:       "unknown",
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Wait blocks until detached effects started by earlier turns have finished
// or ctx is done. Turns never call it, and it must not race with Process.
func (p *Processor) Wait(ctx context.Context) error {
	return p.dispatcher.Wait(ctx)
}

// Close stops starting effects and waits for the pending ones. Turns still
// in flight complete, but their effects are dropped.
func (p *Processor) Close(ctx context.Context) error {
	return p.dispatcher.Close(ctx)
}
