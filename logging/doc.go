// Package logging provides a minimal logging interface and adapters for dialogmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the processor, aggregator, decoders and providers use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping a zap sugared logger
//   - DialogLogger, a slog backed logger with turn helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	proc := processor.New(m, func(o *processor.Options) { o.Logger = logger })
//
// Arguments follow the slog convention of alternating keys and values.
package logging
