// Package processor runs dialogue turns.
//
// A Processor executes one turn per request:
//
//	LoadHistory → GatherContext → Render → Complete → PersistHistory → Decode → Dispatch
//
// Provider failures, malformed completions, unknown actions and invalid
// arguments are logged and absorbed; the turn still answers. Session store,
// prompt render and completion failures abort the turn and are returned.
//
// The Dispatcher executes decoded calls. Directive calls run synchronously
// and their results are part of the response; effect calls run detached,
// optionally after their schedule delay, and may finish after the response
// was returned. Processor.Wait blocks until detached effects have finished.
package processor
