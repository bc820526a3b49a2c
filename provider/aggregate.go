package provider

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"golang.org/x/sync/errgroup"
)

// Fetcher is a named source of one namespace of entries.
type Fetcher[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (map[string]T, error)
}

// Aggregate runs all fetchers concurrently and merges their results.
//
// Contract:
//   - every fetcher is started before any result is awaited
//   - a failing (or panicking) fetcher contributes nothing and is logged
//   - on a duplicate name the earliest registered fetcher wins; later
//     duplicates are logged and dropped
//   - the call returns only after every fetcher has settled; there is no
//     timeout beyond ctx, which is handed to each fetcher unchanged
func Aggregate[T any](ctx context.Context, logger logging.Logger, kind string, fetchers []Fetcher[T]) map[string]T {
	logger = logging.OrNoOp(logger)
	results := make([]map[string]T, len(fetchers))

	var eg errgroup.Group
	for i, f := range fetchers {
		eg.Go(func() error {
			start := time.Now()
			res, err := safeFetch(ctx, f)
			if err != nil {
				logger.Warn("aggregate.provider.failed", "kind", kind, "provider", f.Name, "error", err.Error())
				return nil
			}
			results[i] = res
			logger.Debug("aggregate.provider.done", "kind", kind, "provider", f.Name, "entries", len(res), "duration_ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = eg.Wait()

	merged := make(map[string]T)
	owners := make(map[string]string)
	for i, res := range results {
		for _, key := range sortedKeys(res) {
			if owner, dup := owners[key]; dup {
				logger.Warn("aggregate.duplicate_key", "kind", kind, "provider", fetchers[i].Name, "key", key, "owner", owner, "error", core.ErrDuplicateKey.Error())
				continue
			}
			owners[key] = fetchers[i].Name
			merged[key] = res[key]
		}
	}
	return merged
}

// safeFetch converts a panicking fetcher into an error.
func safeFetch[T any](ctx context.Context, f Fetcher[T]) (res map[string]T, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic recovered: %v\n%s", r, debug.Stack())
		}
	}()
	return f.Fetch(ctx)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StateFetchers adapts state providers for Aggregate.
func StateFetchers(providers []core.StateProvider, sess core.SessionContext) []Fetcher[core.StateEntry] {
	out := make([]Fetcher[core.StateEntry], 0, len(providers))
	for _, p := range providers {
		out = append(out, Fetcher[core.StateEntry]{
			Name: p.Name(),
			Fetch: func(ctx context.Context) (map[string]core.StateEntry, error) {
				st, err := p.State(ctx, sess)
				if err != nil {
					return nil, &core.ProviderError{Provider: p.Name(), Op: "fetch", Err: err}
				}
				return st, nil
			},
		})
	}
	return out
}

// ActionFetchers adapts function bindings for Aggregate. Each descriptor is
// paired with the binding that owns it.
func ActionFetchers(bindings []core.FunctionBinding, sess core.SessionContext) []Fetcher[core.BoundAction] {
	out := make([]Fetcher[core.BoundAction], 0, len(bindings))
	for _, b := range bindings {
		out = append(out, Fetcher[core.BoundAction]{
			Name: b.Name(),
			Fetch: func(ctx context.Context) (map[string]core.BoundAction, error) {
				fns, err := b.Functions(ctx, sess)
				if err != nil {
					return nil, &core.ProviderError{Provider: b.Name(), Op: "fetch", Err: err}
				}
				acts := make(map[string]core.BoundAction, len(fns))
				for name, desc := range fns {
					acts[name] = core.BoundAction{Descriptor: desc, Binding: b}
				}
				return acts, nil
			},
		})
	}
	return out
}

// AggregateState merges the state of all providers.
func AggregateState(ctx context.Context, logger logging.Logger, providers []core.StateProvider, sess core.SessionContext) core.State {
	return Aggregate(ctx, logger, "state", StateFetchers(providers, sess))
}

// AggregateActions merges the action inventories of all bindings.
func AggregateActions(ctx context.Context, logger logging.Logger, bindings []core.FunctionBinding, sess core.SessionContext) core.Actions {
	return Aggregate(ctx, logger, "function", ActionFetchers(bindings, sess))
}
