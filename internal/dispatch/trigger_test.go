package dispatch

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"script-router/internal/events"
	"script-router/internal/metadata"
)

func registerEventController(reg *metadata.Registry, token metadata.Token) *metadata.Builder {
	return metadata.Describe(reg, token).
		EventController(events.DomainSpreadsheet).
		Constructor(nil, func(_ []any) (any, error) { return &struct{}{}, nil })
}

func TestDispatchEvent_RangePatternFilter(t *testing.T) {
	reg := metadata.NewRegistry()

	var fired []string
	registerEventController(reg, "SheetTriggers").
		Method("OnA1Edit", func(_ any, args []any) (any, error) {
			fired = append(fired, events.RangeA1(args[0].(events.Payload)))
			return nil, nil
		}).
		On(events.KindEdit).
		Filter(events.Filter{RangePattern: regexp.MustCompile(`^A1`)}).
		Param(0, metadata.SourceEvent).
		Done()

	d := New(reg, "/api", testLogger())

	d.DispatchEvent(events.KindEdit, events.Payload{"range": "A1:C3"})
	d.DispatchEvent(events.KindEdit, events.Payload{"range": "B2"})

	assert.Equal(t, []string{"A1:C3"}, fired, "pattern ^A1 fires for A1:C3 and not for B2")
}

func TestDispatchEvent_KindMustMatch(t *testing.T) {
	reg := metadata.NewRegistry()

	fired := 0
	registerEventController(reg, "SheetTriggers").
		Method("OnOpen", func(_ any, _ []any) (any, error) {
			fired++
			return nil, nil
		}).
		On(events.KindOpen).
		Done()

	d := New(reg, "/api", testLogger())

	d.DispatchEvent(events.KindEdit, events.Payload{"range": "A1"})
	assert.Zero(t, fired)

	d.DispatchEvent(events.KindOpen, events.Payload{})
	assert.Equal(t, 1, fired)
}

func TestDispatchEvent_NoFilterAlwaysFires(t *testing.T) {
	reg := metadata.NewRegistry()

	fired := 0
	registerEventController(reg, "SheetTriggers").
		Method("OnAnyEdit", func(_ any, _ []any) (any, error) {
			fired++
			return nil, nil
		}).
		On(events.KindEdit).
		Done()

	d := New(reg, "/api", testLogger())
	d.DispatchEvent(events.KindEdit, events.Payload{"range": "ZZ99"})

	assert.Equal(t, 1, fired)
}

func TestDispatchEvent_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	reg := metadata.NewRegistry()

	var order []string
	registerEventController(reg, "SheetTriggers").
		Method("First", func(_ any, _ []any) (any, error) {
			order = append(order, "first")
			return nil, fmt.Errorf("first failed")
		}).
		On(events.KindEdit).
		Done().
		Method("Second", func(_ any, _ []any) (any, error) {
			order = append(order, "second")
			panic("second panicked")
		}).
		On(events.KindEdit).
		Done().
		Method("Third", func(_ any, _ []any) (any, error) {
			order = append(order, "third")
			return nil, nil
		}).
		On(events.KindEdit).
		Done()

	d := New(reg, "/api", testLogger())
	d.DispatchEvent(events.KindEdit, events.Payload{"range": "A1"})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDispatchEvent_FormIDAndChangeTypeFilters(t *testing.T) {
	reg := metadata.NewRegistry()

	var fired []string
	registerEventController(reg, "FormTriggers").
		Method("OnSubmit", func(_ any, _ []any) (any, error) {
			fired = append(fired, "submit")
			return nil, nil
		}).
		On(events.KindFormSubmit).
		Filter(events.Filter{FormIDs: []string{"form-1", "form-2"}}).
		Done().
		Method("OnRowInsert", func(_ any, _ []any) (any, error) {
			fired = append(fired, "insert")
			return nil, nil
		}).
		On(events.KindChange).
		Filter(events.Filter{ChangeTypes: []string{"INSERT_ROW"}}).
		Done()

	d := New(reg, "/api", testLogger())

	d.DispatchEvent(events.KindFormSubmit, events.Payload{"formId": "form-2"})
	d.DispatchEvent(events.KindFormSubmit, events.Payload{"formId": "other"})
	d.DispatchEvent(events.KindChange, events.Payload{"changeType": "INSERT_ROW"})
	d.DispatchEvent(events.KindChange, events.Payload{"changeType": "FORMAT"})

	assert.Equal(t, []string{"submit", "insert"}, fired)
}

func TestDispatchEvent_UnresolvableControllerIsSkipped(t *testing.T) {
	reg := metadata.NewRegistry()

	metadata.Describe(reg, "Broken").
		EventController(events.DomainSpreadsheet).
		Constructor([]metadata.Token{"Missing"}, func(deps []any) (any, error) { return &struct{}{}, nil }).
		Method("OnEdit", func(_ any, _ []any) (any, error) { return nil, nil }).
		On(events.KindEdit).
		Done()

	fired := 0
	registerEventController(reg, "Working").
		Method("OnEdit", func(_ any, _ []any) (any, error) {
			fired++
			return nil, nil
		}).
		On(events.KindEdit).
		Done()

	d := New(reg, "/api", testLogger())
	d.DispatchEvent(events.KindEdit, events.Payload{"range": "A1"})

	assert.Equal(t, 1, fired, "the broken controller must not block the working one")
}
