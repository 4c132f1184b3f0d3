// Package binding assembles handler argument lists from the per-invocation
// context bundle and the parameter declarations recorded in the metadata
// registry.
package binding

import (
	"sort"
	"strings"

	"script-router/internal/common/logging"
	"script-router/internal/events"
	"script-router/internal/metadata"
	"script-router/internal/resolver"
	"script-router/internal/webapp"
)

// Context is the ephemeral runtime bundle one dispatch makes available to
// parameter binding. It is owned exclusively by that dispatch and
// discarded at its end. Trigger dispatches populate only Event.
type Context struct {
	Event    events.Payload
	Params   map[string]string
	Query    map[string]string
	Body     any
	Headers  map[string]string
	Request  *webapp.Request
	Response *webapp.Response
}

// Binder produces ordered argument lists for handler invocations.
type Binder struct {
	reg    *metadata.Registry
	res    *resolver.Resolver
	logger logging.Logger
}

// New creates a binder over the given registry and resolver.
func New(reg *metadata.Registry, res *resolver.Resolver, logger logging.Logger) *Binder {
	return &Binder{
		reg:    reg,
		res:    res,
		logger: logger.WithFields(logging.Field{Key: "component", Value: "binder"}),
	}
}

// Bind merges the parameter declarations of one handler into an ordered
// argument list indexed by declared position. Undeclared positions stay
// nil — the binder does not validate gaps. An unresolvable inject
// parameter also degrades to nil rather than aborting the call.
func (b *Binder) Bind(owner metadata.Token, method string, ctx *Context) []any {
	decls := b.declarations(owner, method)
	if len(decls) == 0 {
		return nil
	}

	maxIndex := 0
	for _, d := range decls {
		if d.Index > maxIndex {
			maxIndex = d.Index
		}
	}

	args := make([]any, maxIndex+1)
	for _, d := range decls {
		args[d.Index] = b.bindOne(owner, d, ctx)
	}
	return args
}

// declarations returns the handler's parameter declarations in a
// deterministic order (sorted by registry key) so that two declarations
// landing on the same index always resolve the same way.
func (b *Binder) declarations(owner metadata.Token, method string) []metadata.ParamDecl {
	fact, ok := b.reg.Read(metadata.FactParams, owner, method)
	if !ok {
		return nil
	}
	byKey := fact.(map[string]metadata.ParamDecl)

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	decls := make([]metadata.ParamDecl, 0, len(keys))
	for _, k := range keys {
		decls = append(decls, byKey[k])
	}
	return decls
}

func (b *Binder) bindOne(owner metadata.Token, d metadata.ParamDecl, ctx *Context) any {
	switch d.Source {
	case metadata.SourcePath:
		return keyOrWholeMap(ctx.Params, d.Key)
	case metadata.SourceQuery:
		return keyOrWholeMap(ctx.Query, d.Key)
	case metadata.SourceHeaders:
		return headerKeyOrWhole(ctx.Headers, d.Key)
	case metadata.SourceBody:
		return bodyValue(ctx.Body, d.Key)
	case metadata.SourceEvent:
		return keyOrWhole(map[string]any(ctx.Event), d.Key, func() any { return ctx.Event })
	case metadata.SourceRequest:
		return requestValue(ctx.Request, d.Key)
	case metadata.SourceResponse:
		// Responses have no meaningful projection; handlers get the
		// placeholder itself.
		return ctx.Response
	case metadata.SourceInject:
		return b.inject(owner, d)
	default:
		return nil
	}
}

// inject resolves the declared token, falling back to the constructor-
// declared dependency type at the same index. Failures degrade to nil:
// binding must never abort an otherwise-valid call over an unresolvable
// optional dependency parameter.
func (b *Binder) inject(owner metadata.Token, d metadata.ParamDecl) any {
	token := d.Token
	if token == "" {
		if fact, ok := b.reg.Read(metadata.FactDeps, owner); ok {
			deps := fact.([]metadata.Token)
			if d.Index < len(deps) {
				token = deps[d.Index]
			}
		}
	}
	if token == "" {
		return nil
	}

	instance, err := b.res.Resolve(token)
	if err != nil {
		b.logger.Warn("inject parameter could not be resolved, binding nil",
			logging.Field{Key: "owner", Value: string(owner)},
			logging.Field{Key: "token", Value: string(token)},
			logging.Err(err),
		)
		return nil
	}
	return instance
}

// keyOrWholeMap projects one field of a string map, or passes the whole
// map when no key was declared.
func keyOrWholeMap(m map[string]string, key string) any {
	if key == "" {
		return m
	}
	if v, ok := m[key]; ok {
		return v
	}
	return nil
}

// headerKeyOrWhole is keyOrWholeMap with case-insensitive key lookup.
func headerKeyOrWhole(headers map[string]string, key string) any {
	if key == "" {
		return headers
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// bodyValue projects a field only when the parsed body actually is an
// object; otherwise the whole (possibly still-raw) body is passed.
func bodyValue(body any, key string) any {
	if key == "" {
		return body
	}
	if obj, ok := body.(map[string]any); ok {
		return obj[key]
	}
	return body
}

// keyOrWhole projects a field of a generic map, or yields the whole value.
func keyOrWhole(m map[string]any, key string, whole func() any) any {
	if key == "" {
		return whole()
	}
	if m == nil {
		return nil
	}
	return m[key]
}

func requestValue(req *webapp.Request, key string) any {
	if key == "" {
		return req
	}
	if req == nil {
		return nil
	}
	switch strings.ToLower(key) {
	case "id":
		return req.ID
	case "method":
		return string(req.Method)
	case "path":
		return req.Path
	case "query":
		return req.Query
	case "headers":
		return req.Headers
	case "body":
		return req.Body
	case "rawbody":
		return req.RawBody
	case "contenttype":
		return req.ContentType
	default:
		return nil
	}
}
