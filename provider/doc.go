// Package provider aggregates per-turn context from independent providers and
// houses the concrete providers shipped with dialogmesh.
//
// Aggregate queries every provider concurrently, drops failing providers,
// and merges the returned namespaces in registration order so that the first
// provider to claim a name keeps it. Concrete providers:
//
//   - SystemStateProvider: clock and caller classification facts
//   - RemoteStateProvider / RemoteFunctionProvider: HTTP JSON providers
//   - DirectiveProvider: in-process registry of synchronous directives
//   - NewVolumeDirectiveProvider: assistant volume control directives
package provider
