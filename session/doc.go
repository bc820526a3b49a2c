// Package session houses concrete implementations of core.SessionStore.
// The interface itself lives in the core package; keeping only
// implementations here prevents the processor from depending on concrete
// storage.
//
// InMemoryStore keeps histories in process memory. The sqlite subpackage
// persists them across restarts. Only the wiring layer decides which one
// to instantiate.
package session
