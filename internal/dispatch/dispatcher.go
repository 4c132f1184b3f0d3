// Package dispatch orchestrates the engine: it matches inbound web
// requests against the route table, resolves the owning controller, binds
// parameters, invokes the handler and packages the response; for trigger
// events it fans out to every matching handler, isolating failures so one
// broken handler cannot block the rest.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"script-router/internal/binding"
	"script-router/internal/common/errors"
	"script-router/internal/common/logging"
	"script-router/internal/events"
	"script-router/internal/metadata"
	"script-router/internal/resolver"
	"script-router/internal/routing"
	"script-router/internal/webapp"
)

// Dispatcher composes the route table, the dependency resolver and the
// parameter binder over one metadata registry. It is built once per
// process; rebuilding it from the same registrations is cheap because the
// platform does not guarantee the process survives between invocations.
type Dispatcher struct {
	reg       *metadata.Registry
	table     []routing.Route
	res       *resolver.Resolver
	binder    *binding.Binder
	apiPrefix string
	logger    logging.Logger
}

// New builds a dispatcher over the given registry. The apiPrefix marks the
// path subtree whose responses serialize the full envelope.
func New(reg *metadata.Registry, apiPrefix string, logger logging.Logger) *Dispatcher {
	res := resolver.New(reg, logger)
	return &Dispatcher{
		reg:       reg,
		table:     routing.BuildTable(reg),
		res:       res,
		binder:    binding.New(reg, res, logger),
		apiPrefix: apiPrefix,
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "dispatcher"}),
	}
}

// Routes exposes the built route table for startup diagnostics.
func (d *Dispatcher) Routes() []routing.Route {
	out := make([]routing.Route, len(d.table))
	copy(out, d.table)
	return out
}

// DispatchRequest runs one inbound web call to completion. Every outcome
// is a serialized response: 404 when no route matches, 500 when the
// handler or any step after request construction fails, the handler's
// response otherwise. Nothing propagates out of this method.
func (d *Dispatcher) DispatchRequest(event map[string]any, entryVerb metadata.Verb) webapp.Output {
	start := time.Now()
	req := webapp.BuildRequest(event, entryVerb)
	ctx := logging.WithInvocationID(context.Background(), req.ID)
	log := d.logger.WithContext(ctx).WithFields(
		logging.String("method", string(req.Method)),
		logging.String("path", req.Path),
	)

	route, ok := routing.MatchRoute(d.table, req.Method, req.Path)
	if !ok {
		log.Info("no route matched request", logging.Err(errors.NotFoundError(req.Path)))
		resp := webapp.NewResponse()
		resp.SetStatus(404)
		resp.Body = ""
		return webapp.Negotiate(req, resp, d.apiPrefix)
	}

	log.Debug("route matched",
		logging.String("owner", string(route.Owner)),
		logging.String("handler", route.HandlerName),
	)
	resp := d.invokeRoute(route, req, log)
	log.Debug("request dispatched",
		logging.Int("status", resp.Status),
		logging.Bool("ok", resp.Ok),
		logging.Duration("elapsed", time.Since(start)),
	)
	return webapp.Negotiate(req, resp, d.apiPrefix)
}

// invokeRoute performs resolution, binding and invocation for a matched
// route. Errors and panics become a 500 response carrying the stringified
// failure.
func (d *Dispatcher) invokeRoute(route *routing.Route, req *webapp.Request, log logging.Logger) (resp *webapp.Response) {
	resp = webapp.NewResponse()

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", fmt.Errorf("%v", r))
			resp.SetStatus(500)
			resp.Body = fmt.Sprintf("%v", r)
		}
	}()

	instance, err := d.res.Resolve(route.Owner)
	if err != nil {
		return d.internalError(resp, err, log)
	}

	// Malformed JSON already degraded to raw text with a warning inside
	// ParseJSONBody; it never fails the request.
	_ = req.ParseJSONBody(log)

	ctx := &binding.Context{
		Event:    events.Payload(req.Event),
		Params:   routing.ExtractParams(route.Path, req.Path),
		Query:    req.Query,
		Body:     req.Body,
		Headers:  req.Headers,
		Request:  req,
		Response: resp,
	}
	args := d.binder.Bind(route.Owner, route.HandlerName, ctx)

	invFact, ok := d.reg.Read(metadata.FactInvoker, route.Owner, route.HandlerName)
	if !ok {
		return d.internalError(resp,
			errors.HandlerError(fmt.Sprintf("handler %q has no invoker", route.HandlerName), nil), log)
	}

	result, err := invFact.(metadata.Invoker)(instance, args)
	if err != nil {
		return d.internalError(resp, errors.HandlerError("handler invocation failed", err), log)
	}

	// A handler may return a full response of its own; that contract
	// overrides status inference.
	if handlerResp, ok := result.(*webapp.Response); ok {
		if handlerResp.Status == 0 {
			handlerResp.SetStatus(inferredStatus(req.Method))
		}
		return handlerResp
	}

	return resp.Finalize(result, inferredStatus(req.Method))
}

func (d *Dispatcher) internalError(resp *webapp.Response, err error, log logging.Logger) *webapp.Response {
	log.Error("request dispatch failed", err)
	resp.SetStatus(500)
	resp.Body = err.Error()
	return resp
}

// inferredStatus picks the conventional success status for a verb: 200 for
// read-style verbs, 201 for everything else.
func inferredStatus(verb metadata.Verb) int {
	switch verb {
	case metadata.VerbGet, metadata.VerbHead, metadata.VerbOptions:
		return 200
	}
	return 201
}
