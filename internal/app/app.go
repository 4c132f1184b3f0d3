// Package app assembles the dispatch engine and exposes the platform
// entry functions. A script registers its controllers and units through
// Module functions; New builds the route table, resolver and binder from
// the resulting metadata and the entry functions feed raw platform
// events into the dispatcher.
package app

import (
	"script-router/internal/common/logging"
	"script-router/internal/config"
	"script-router/internal/dispatch"
	"script-router/internal/events"
	"script-router/internal/metadata"
	"script-router/internal/routing"
	"script-router/internal/webapp"
)

// Module registers a group of controllers and units against a registry.
// Modules run in the order they are passed to New, which fixes route
// precedence between controllers.
type Module func(reg *metadata.Registry)

// App holds the assembled dispatch engine.
type App struct {
	Config     *config.Config
	Registry   *metadata.Registry
	Dispatcher *dispatch.Dispatcher
	Logger     logging.Logger
}

// New creates an application instance. A fresh registry is populated by
// the given modules, then the dispatcher is built from it.
func New(cfg *config.Config, modules ...Module) *App {
	reg := metadata.NewRegistry()
	for _, register := range modules {
		register(reg)
	}

	return &App{
		Config:     cfg,
		Registry:   reg,
		Dispatcher: dispatch.New(reg, cfg.APIPrefix, logging.GetGlobalLogger()),
		Logger:     logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}
}

// Routes returns the built route table in precedence order.
func (a *App) Routes() []routing.Route {
	return a.Dispatcher.Routes()
}

// DoGet handles a web GET invocation.
func (a *App) DoGet(event events.Payload) webapp.Output {
	return a.Dispatcher.DispatchRequest(event, metadata.VerbGet)
}

// DoPost handles a web POST invocation. Handlers may still see a
// different verb when the request overrides the method parameter.
func (a *App) DoPost(event events.Payload) webapp.Output {
	return a.Dispatcher.DispatchRequest(event, metadata.VerbPost)
}

// OnInstall fans the install event out to matching trigger handlers.
func (a *App) OnInstall(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindInstall, event)
}

// OnOpen fans the open event out to matching trigger handlers.
func (a *App) OnOpen(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindOpen, event)
}

// OnEdit fans the edit event out to matching trigger handlers.
func (a *App) OnEdit(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindEdit, event)
}

// OnChange fans the change event out to matching trigger handlers.
func (a *App) OnChange(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindChange, event)
}

// OnSelectionChange fans the selection change event out to matching
// trigger handlers.
func (a *App) OnSelectionChange(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindSelectionChange, event)
}

// OnFormSubmit fans the form submit event out to matching trigger
// handlers.
func (a *App) OnFormSubmit(event events.Payload) {
	a.Dispatcher.DispatchEvent(events.KindFormSubmit, event)
}
