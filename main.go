package main

import (
	"fmt"
	"os"
	"regexp"

	"script-router/internal/app"
	"script-router/internal/events"
	"script-router/internal/metadata"
	"script-router/internal/webapp"
)

// ItemStore keeps items in memory for the demo script.
type ItemStore struct {
	items map[string]map[string]any
}

func newItemStore() *ItemStore {
	return &ItemStore{items: map[string]map[string]any{
		"1": {"id": "1", "name": "starter"},
	}}
}

func (s *ItemStore) Get(id string) (map[string]any, bool) {
	item, ok := s.items[id]
	return item, ok
}

func (s *ItemStore) Put(id string, item map[string]any) {
	s.items[id] = item
}

// ItemController serves /items through the injected store.
type ItemController struct {
	store *ItemStore
}

func (c *ItemController) list() []map[string]any {
	out := make([]map[string]any, 0, len(c.store.items))
	for _, item := range c.store.items {
		out = append(out, item)
	}
	return out
}

// itemsModule wires the store and controller into the registry.
func itemsModule(reg *metadata.Registry) {
	metadata.Describe(reg, "ItemStore").
		Service().
		Constructor(nil, func(deps []any) (any, error) {
			return newItemStore(), nil
		})

	metadata.Describe(reg, "ItemController").
		Controller("/items").
		Constructor([]metadata.Token{"ItemStore"}, func(deps []any) (any, error) {
			return &ItemController{store: deps[0].(*ItemStore)}, nil
		}).
		Method("list", func(instance any, args []any) (any, error) {
			return instance.(*ItemController).list(), nil
		}).Get("/").Done().
		Method("get", func(instance any, args []any) (any, error) {
			ctrl := instance.(*ItemController)
			id, _ := args[0].(string)
			item, ok := ctrl.store.Get(id)
			if !ok {
				return nil, fmt.Errorf("item %s not found", id)
			}
			return item, nil
		}).Get("/{id}").Param(0, metadata.SourcePath, "id").Done().
		Method("create", func(instance any, args []any) (any, error) {
			ctrl := instance.(*ItemController)
			body, _ := args[0].(map[string]any)
			id, _ := body["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("item id is required")
			}
			ctrl.store.Put(id, body)
			if resp, ok := args[1].(*webapp.Response); ok {
				resp.SetStatus(201)
			}
			return body, nil
		}).Post("/").Param(0, metadata.SourceBody).Param(1, metadata.SourceResponse).Done()
}

// sheetModule reacts to spreadsheet edits in the first header cell.
func sheetModule(reg *metadata.Registry) {
	metadata.Describe(reg, "SheetWatcher").
		EventController(events.DomainSpreadsheet).
		Constructor(nil, func(deps []any) (any, error) {
			return &struct{}{}, nil
		}).
		Method("onHeaderEdit", func(instance any, args []any) (any, error) {
			event, _ := args[0].(events.Payload)
			fmt.Printf("header edited: %s\n", events.RangeA1(event))
			return nil, nil
		}).On(events.KindEdit).
		Filter(events.Filter{RangePattern: regexp.MustCompile("^A1")}).
		Param(0, metadata.SourceEvent).Done()
}

func main() {
	if err := app.Run(itemsModule, sheetModule); err != nil {
		os.Exit(1)
	}
}
