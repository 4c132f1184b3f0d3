// Package resolver instantiates registered units on demand and memoizes
// them for the remaining lifetime of the process.
//
// Construction is depth-first: resolving a token first materializes and
// caches every constructor dependency it declares. The dependency table is
// explicit — ordered tokens registered alongside the constructor — rather
// than inferred from types, so the resolver never touches reflection.
//
// The host platform does not guarantee process reuse, so the cache is a
// memoization convenience, not durable state: a fresh process rebuilds it
// from the same registrations at the same cost.
package resolver

import (
	"fmt"

	"script-router/internal/common/errors"
	"script-router/internal/common/logging"
	"script-router/internal/metadata"
)

// Resolver is the recursive instantiator. Instances are cached per token,
// split into a controller partition and a provider partition; behaviorally
// the two form a single "already built" set.
type Resolver struct {
	reg         *metadata.Registry
	controllers map[metadata.Token]any
	providers   map[metadata.Token]any
	// resolving tracks the tokens on the current construction path so a
	// constructor cycle fails fast instead of recursing forever.
	resolving map[metadata.Token]bool
	logger    logging.Logger
}

// New creates a resolver over the given registry with empty caches.
func New(reg *metadata.Registry, logger logging.Logger) *Resolver {
	return &Resolver{
		reg:         reg,
		controllers: make(map[metadata.Token]any),
		providers:   make(map[metadata.Token]any),
		resolving:   make(map[metadata.Token]bool),
		logger:      logger.WithFields(logging.Field{Key: "component", Value: "resolver"}),
	}
}

// Resolve returns the cached instance for a token, building it first if
// necessary. It fails with a resolution error when the token has no
// registered constructor, and with a cyclic-dependency error when the
// construction path loops back onto itself. A failed build caches nothing
// for the failing token.
func (r *Resolver) Resolve(token metadata.Token) (any, error) {
	if instance, ok := r.Cached(token); ok {
		return instance, nil
	}

	if r.resolving[token] {
		return nil, errors.CyclicDependencyError(
			fmt.Sprintf("constructor cycle detected while resolving %q", token))
	}

	ctorFact, ok := r.reg.Read(metadata.FactConstructor, token)
	if !ok {
		return nil, errors.ResolutionError(
			fmt.Sprintf("no constructor registered for token %q", token))
	}
	ctor := ctorFact.(metadata.Constructor)

	r.resolving[token] = true
	defer delete(r.resolving, token)

	deps, err := r.resolveDeps(token)
	if err != nil {
		return nil, err
	}

	instance, err := ctor(deps)
	if err != nil {
		return nil, errors.ResolutionError(
			fmt.Sprintf("constructor for token %q failed: %v", token, err))
	}

	r.cache(token, instance)
	return instance, nil
}

// Cached returns the already-built instance for a token, if any, without
// triggering construction.
func (r *Resolver) Cached(token metadata.Token) (any, bool) {
	if instance, ok := r.controllers[token]; ok {
		return instance, true
	}
	if instance, ok := r.providers[token]; ok {
		return instance, true
	}
	return nil, false
}

// resolveDeps materializes the constructor argument list for a token from
// its declared dependency tokens, honoring per-index injection overrides.
func (r *Resolver) resolveDeps(token metadata.Token) ([]any, error) {
	var depTokens []metadata.Token
	if fact, ok := r.reg.Read(metadata.FactDeps, token); ok {
		depTokens = fact.([]metadata.Token)
	}

	var overrides map[int]metadata.Token
	if fact, ok := r.reg.Read(metadata.FactInjectOverrides, token); ok {
		overrides = fact.(map[int]metadata.Token)
	}

	deps := make([]any, len(depTokens))
	for i, depToken := range depTokens {
		if override, ok := overrides[i]; ok {
			depToken = override
		}
		if depToken == "" {
			return nil, errors.ResolutionError(fmt.Sprintf(
				"dependency %d of token %q has no resolvable token", i, token))
		}

		instance, err := r.Resolve(depToken)
		if err != nil {
			return nil, err
		}
		deps[i] = instance
	}

	return deps, nil
}

// cache classifies the instance by its declared facts and stores it in the
// matching partition. A unit that is neither a recognized controller nor
// explicitly injectable is still cached and returned, with a warning.
func (r *Resolver) cache(token metadata.Token, instance any) {
	_, isHTTP := r.reg.Read(metadata.FactBasePath, token)
	_, isEvent := r.reg.Read(metadata.FactEventDomain, token)
	if isHTTP || isEvent {
		r.controllers[token] = instance
		return
	}

	if _, injectable := r.reg.Read(metadata.FactInjectable, token); !injectable {
		warn := errors.UnregisteredError(fmt.Sprintf(
			"token %q is neither a controller nor marked injectable", token))
		r.logger.Warn(warn.Message, logging.Field{Key: "token", Value: string(token)})
	}
	r.providers[token] = instance
}
