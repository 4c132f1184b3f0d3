package metadata

import "fmt"

// Fact kinds. Target-scoped kinds describe the class-like unit itself;
// member-scoped kinds describe one of its methods.
const (
	// FactBasePath (target) marks an HTTP-style controller and holds its
	// base path (default "/").
	FactBasePath = "controller:basepath"
	// FactEventDomain (target) marks an event-style controller and holds
	// its events.Domain.
	FactEventDomain = "controller:eventdomain"
	// FactInjectable (target) marks a general-purpose injectable. The value
	// distinguishes the declared flavor ("injectable", "service",
	// "repository"); all three behave identically at resolution time.
	FactInjectable = "injectable"
	// FactConstructor (target) holds the Constructor function.
	FactConstructor = "constructor"
	// FactDeps (target) holds the ordered []Token of constructor
	// dependencies.
	FactDeps = "constructor:deps"
	// FactInjectOverrides (target) holds a map[int]Token of explicit
	// injection tokens per constructor parameter index.
	FactInjectOverrides = "constructor:overrides"
	// FactVerb (member) holds the HTTP Verb of a web handler.
	FactVerb = "route:verb"
	// FactPath (member) holds the relative path template of a web handler.
	FactPath = "route:path"
	// FactEventKind (member) holds the events.Kind a trigger handler fires on.
	FactEventKind = "event:kind"
	// FactEventFilter (member) holds the *events.Filter of a trigger handler.
	FactEventFilter = "event:filter"
	// FactParams (member) holds map[string]ParamDecl keyed "source:index".
	FactParams = "params"
	// FactInvoker (member) holds the Invoker function for the method.
	FactInvoker = "invoker"
)

// Verb is an HTTP method as asserted by the platform or overridden by the
// request's method parameter.
type Verb string

const (
	VerbGet     Verb = "GET"
	VerbPost    Verb = "POST"
	VerbPut     Verb = "PUT"
	VerbPatch   Verb = "PATCH"
	VerbDelete  Verb = "DELETE"
	VerbHead    Verb = "HEAD"
	VerbOptions Verb = "OPTIONS"
)

// HasBody reports whether the verb conventionally carries a request body.
func (v Verb) HasBody() bool {
	switch v {
	case VerbPost, VerbPut, VerbPatch, VerbDelete:
		return true
	}
	return false
}

// ParamSource enumerates where one handler argument comes from.
type ParamSource string

const (
	SourcePath     ParamSource = "path"
	SourceQuery    ParamSource = "query"
	SourceBody     ParamSource = "body"
	SourceEvent    ParamSource = "event"
	SourceRequest  ParamSource = "request"
	SourceHeaders  ParamSource = "headers"
	SourceResponse ParamSource = "response"
	SourceInject   ParamSource = "inject"
)

// ParamDecl declares one handler parameter: where it comes from, which
// argument position it fills, an optional projection key, and — for inject
// parameters — an optional explicit token.
type ParamDecl struct {
	Source ParamSource
	Index  int
	Key    string
	Token  Token
}

// DeclKey is the registry key under which a parameter declaration is
// stored: "source:index". A duplicate declaration at the same source and
// index overwrites the earlier one.
func (d ParamDecl) DeclKey() string {
	return fmt.Sprintf("%s:%d", d.Source, d.Index)
}

// Constructor builds an instance from its already-resolved dependencies,
// supplied in the order declared by FactDeps.
type Constructor func(deps []any) (any, error)

// Invoker calls one method of an instance with the bound argument list and
// returns the handler result. It is the explicit replacement for invoking
// a method by name through reflection.
type Invoker func(instance any, args []any) (any, error)
