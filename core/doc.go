// Package core provides the foundational domain types and consumer-side
// interfaces used by dialogmesh. It defines the core abstractions for:
//
//   - Sessions (turn-scoped SessionContext plus persisted message history)
//   - State facts and action descriptors contributed by providers
//   - The capability schema (argument constraints) and its JSON encoding
//   - Loosely typed call arguments modelled as a closed Value union
//   - Provider contracts, bound to Effect or Directive dispatch at registration
//
// The package intentionally keeps implementation concerns (aggregation,
// decoding, validation, dispatch, persistence) out of scope, exposing small
// interfaces so that providers, stores and completion engines can be swapped.
package core
