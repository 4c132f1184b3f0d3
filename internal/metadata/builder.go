package metadata

import "script-router/internal/events"

// Builder is the fluent declaration surface for one target. It replaces
// language-level decorators: wiring code calls registration functions at
// module-initialization time and every call writes plain facts into the
// registry.
//
// Example:
//
//	metadata.Describe(reg, "ItemController").
//		Controller("/api/items").
//		Constructor([]metadata.Token{"ItemService"}, newItemController).
//		Method("List", listInvoker).
//		Get("/").
//		Param(0, metadata.SourceQuery).
//		Done().
//		Method("Create", createInvoker).
//		Post("/").
//		Param(0, metadata.SourceBody).
//		Done()
type Builder struct {
	reg    *Registry
	target Token
}

// Describe starts a declaration chain for the given target token.
func Describe(reg *Registry, target Token) *Builder {
	return &Builder{reg: reg, target: target}
}

// Controller marks the target as an HTTP-style controller with the given
// base path. An empty base path defaults to "/".
func (b *Builder) Controller(basePath string) *Builder {
	if basePath == "" {
		basePath = "/"
	}
	b.reg.Define(FactBasePath, basePath, b.target)
	return b
}

// EventController marks the target as an event-style controller bound to
// one document domain.
func (b *Builder) EventController(domain events.Domain) *Builder {
	b.reg.Define(FactEventDomain, domain, b.target)
	return b
}

// Injectable marks the target as a general-purpose injectable.
func (b *Builder) Injectable() *Builder {
	b.reg.Define(FactInjectable, "injectable", b.target)
	return b
}

// Service marks the target as a service. Behaves like Injectable.
func (b *Builder) Service() *Builder {
	b.reg.Define(FactInjectable, "service", b.target)
	return b
}

// Repository marks the target as a repository. Behaves like Injectable.
func (b *Builder) Repository() *Builder {
	b.reg.Define(FactInjectable, "repository", b.target)
	return b
}

// Constructor registers the target's constructor together with the ordered
// tokens of its dependencies. This is the explicit registration table that
// stands in for reflected constructor parameter types.
func (b *Builder) Constructor(deps []Token, fn Constructor) *Builder {
	b.reg.Define(FactDeps, deps, b.target)
	b.reg.Define(FactConstructor, fn, b.target)
	return b
}

// InjectAt overrides the dependency token at one constructor parameter
// index, taking precedence over the token declared in Constructor.
func (b *Builder) InjectAt(index int, token Token) *Builder {
	overrides, _ := b.reg.Read(FactInjectOverrides, b.target)
	m, ok := overrides.(map[int]Token)
	if !ok {
		m = make(map[int]Token)
	}
	m[index] = token
	b.reg.Define(FactInjectOverrides, m, b.target)
	return b
}

// Method starts a declaration chain for one method of the target. The
// invoker is how the dispatcher calls the method once parameters are bound.
func (b *Builder) Method(name string, fn Invoker) *MethodBuilder {
	b.reg.Define(FactInvoker, fn, b.target, name)
	return &MethodBuilder{parent: b, name: name}
}

// MethodBuilder declares facts for a single method.
type MethodBuilder struct {
	parent *Builder
	name   string
}

// Done returns to the target-level builder.
func (m *MethodBuilder) Done() *Builder {
	return m.parent
}

func (m *MethodBuilder) route(verb Verb, path string) *MethodBuilder {
	m.parent.reg.Define(FactVerb, verb, m.parent.target, m.name)
	m.parent.reg.Define(FactPath, path, m.parent.target, m.name)
	return m
}

// Get declares the method as a GET handler at the given relative path.
func (m *MethodBuilder) Get(path string) *MethodBuilder { return m.route(VerbGet, path) }

// Post declares the method as a POST handler at the given relative path.
func (m *MethodBuilder) Post(path string) *MethodBuilder { return m.route(VerbPost, path) }

// Put declares the method as a PUT handler at the given relative path.
func (m *MethodBuilder) Put(path string) *MethodBuilder { return m.route(VerbPut, path) }

// Patch declares the method as a PATCH handler at the given relative path.
func (m *MethodBuilder) Patch(path string) *MethodBuilder { return m.route(VerbPatch, path) }

// Delete declares the method as a DELETE handler at the given relative path.
func (m *MethodBuilder) Delete(path string) *MethodBuilder { return m.route(VerbDelete, path) }

// Head declares the method as a HEAD handler at the given relative path.
func (m *MethodBuilder) Head(path string) *MethodBuilder { return m.route(VerbHead, path) }

// Options declares the method as an OPTIONS handler at the given relative path.
func (m *MethodBuilder) Options(path string) *MethodBuilder { return m.route(VerbOptions, path) }

// On declares the method as a trigger handler for one event kind.
func (m *MethodBuilder) On(kind events.Kind) *MethodBuilder {
	m.parent.reg.Define(FactEventKind, kind, m.parent.target, m.name)
	return m
}

// Filter attaches an event filter to the method's trigger declaration.
func (m *MethodBuilder) Filter(f events.Filter) *MethodBuilder {
	m.parent.reg.Define(FactEventFilter, &f, m.parent.target, m.name)
	return m
}

// Param declares one handler parameter at the given argument index, coming
// from the given source, with an optional projection key. Declaring the
// same source and index twice overwrites the earlier declaration.
func (m *MethodBuilder) Param(index int, source ParamSource, key ...string) *MethodBuilder {
	decl := ParamDecl{Source: source, Index: index}
	if len(key) > 0 {
		decl.Key = key[0]
	}
	m.define(decl)
	return m
}

// Inject declares one handler parameter at the given argument index as an
// injected dependency resolved by explicit token.
func (m *MethodBuilder) Inject(index int, token Token) *MethodBuilder {
	m.define(ParamDecl{Source: SourceInject, Index: index, Token: token})
	return m
}

func (m *MethodBuilder) define(decl ParamDecl) {
	params, _ := m.parent.reg.Read(FactParams, m.parent.target, m.name)
	decls, ok := params.(map[string]ParamDecl)
	if !ok {
		decls = make(map[string]ParamDecl)
	}
	decls[decl.DeclKey()] = decl
	m.parent.reg.Define(FactParams, decls, m.parent.target, m.name)
}
