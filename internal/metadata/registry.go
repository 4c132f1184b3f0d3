// Package metadata implements the declarative fact store of the dispatch
// engine. Application wiring describes its controllers, services and
// handlers through the fluent builder in builder.go; every declaration
// lands as a keyed fact in the Registry, where the route table builder,
// the parameter binder and the dependency resolver read it back.
//
// Facts are scoped either to a target token (the stand-in for a class
// reference) or to a (target, member) pair (one method of that target).
// Facts are write-once per declaration site: re-declaring the same site
// overwrites the previous value. There is no removal operation.
package metadata

import "sync"

// Token identifies one registered unit (a controller, service, repository
// or any other injectable). Tokens are the explicit replacement for
// reflected class references: the resolver looks constructors up by token,
// never by runtime type inspection.
type Token string

// factKey addresses one fact: a kind scoped to a target or to a member of
// a target.
type factKey struct {
	kind   string
	target Token
	member string
}

// Registry is the process-wide store of declarative facts. It also keeps
// targets and members in declaration order, because that order determines
// route precedence and event-handler iteration order.
//
// The registry is built once at wiring time and read-only afterwards; the
// mutex only guards against careless concurrent wiring in tests.
type Registry struct {
	facts   map[factKey]any
	targets []Token
	seen    map[Token]bool
	members map[Token][]string
	mu      sync.RWMutex
}

// NewRegistry creates an empty fact registry.
func NewRegistry() *Registry {
	return &Registry{
		facts:   make(map[factKey]any),
		seen:    make(map[Token]bool),
		members: make(map[Token][]string),
	}
}

// Define stores a fact of the given kind for a target, or for one member
// of the target when a member name is supplied. Defining the same site
// twice overwrites (last write wins); the target keeps its original
// position in declaration order.
func (r *Registry) Define(kind string, value any, target Token, member ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := factKey{kind: kind, target: target}
	if len(member) > 0 {
		key.member = member[0]
		r.recordMember(target, member[0])
	}
	r.recordTarget(target)
	r.facts[key] = value
}

// Read returns the fact of the given kind for a target (or member of a
// target) and whether it was present.
func (r *Registry) Read(kind string, target Token, member ...string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := factKey{kind: kind, target: target}
	if len(member) > 0 {
		key.member = member[0]
	}
	value, ok := r.facts[key]
	return value, ok
}

// Targets returns all targets that carry at least one fact, in first
// declaration order. The returned slice is a copy.
func (r *Registry) Targets() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Token, len(r.targets))
	copy(out, r.targets)
	return out
}

// Members returns the member names declared on a target, in declaration
// order. The returned slice is a copy.
func (r *Registry) Members(target Token) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.members[target]))
	copy(out, r.members[target])
	return out
}

func (r *Registry) recordTarget(target Token) {
	if !r.seen[target] {
		r.seen[target] = true
		r.targets = append(r.targets, target)
	}
}

func (r *Registry) recordMember(target Token, member string) {
	for _, m := range r.members[target] {
		if m == member {
			return
		}
	}
	r.members[target] = append(r.members[target], member)
}
