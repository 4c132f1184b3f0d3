package dispatch

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"script-router/internal/binding"
	"script-router/internal/common/logging"
	"script-router/internal/events"
	"script-router/internal/metadata"
)

// DispatchEvent fans a trigger event out to every handler registered for
// its kind. Controllers are visited in registration order and their
// methods in declaration order; each invocation is individually recovered,
// so a failing handler is logged and the rest still run. Trigger handlers
// are fire-and-forget: there is no return value.
func (d *Dispatcher) DispatchEvent(kind events.Kind, event events.Payload) {
	ctx := logging.WithInvocationID(context.Background(), cuid.New())
	log := d.logger.WithContext(ctx).WithFields(
		logging.String("event_kind", string(kind)),
	)

	for _, target := range d.reg.Targets() {
		if _, ok := d.reg.Read(metadata.FactEventDomain, target); !ok {
			continue
		}

		instance, err := d.res.Resolve(target)
		if err != nil {
			log.Error("event controller resolution failed, skipping its handlers", err,
				logging.Field{Key: "owner", Value: string(target)})
			continue
		}

		for _, member := range d.reg.Members(target) {
			kindFact, ok := d.reg.Read(metadata.FactEventKind, target, member)
			if !ok || kindFact.(events.Kind) != kind {
				continue
			}

			var filter *events.Filter
			if f, ok := d.reg.Read(metadata.FactEventFilter, target, member); ok {
				filter = f.(*events.Filter)
			}
			if !filter.Matches(kind, event) {
				continue
			}

			d.invokeTrigger(instance, target, member, event, log)
		}
	}
}

// invokeTrigger binds and calls one trigger handler, swallowing its
// failure so subsequent handlers still fire.
func (d *Dispatcher) invokeTrigger(instance any, target metadata.Token, member string, event events.Payload, log logging.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked", fmt.Errorf("%v", r),
				logging.Field{Key: "owner", Value: string(target)},
				logging.Field{Key: "handler", Value: member},
			)
		}
	}()

	args := d.binder.Bind(target, member, &binding.Context{Event: event})

	invFact, ok := d.reg.Read(metadata.FactInvoker, target, member)
	if !ok {
		log.Warn("event handler has no invoker, skipping",
			logging.Field{Key: "owner", Value: string(target)},
			logging.Field{Key: "handler", Value: member},
		)
		return
	}

	if _, err := invFact.(metadata.Invoker)(instance, args); err != nil {
		log.Error("event handler failed", err,
			logging.Field{Key: "owner", Value: string(target)},
			logging.Field{Key: "handler", Value: member},
		)
	}
}
