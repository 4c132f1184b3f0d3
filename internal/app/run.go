package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"script-router/internal/common/errors"
	"script-router/internal/common/logging"
	"script-router/internal/config"
	"script-router/internal/events"
	"script-router/internal/webapp"
)

// Run is the local harness entry point. It loads one recorded platform
// event (from EVENT_FILE, or stdin when unset), feeds it through the
// entry function named by ENTRY, and prints the dispatch output as JSON.
// Trigger entries produce no output; their effect is visible in the logs.
func Run(modules ...Module) error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logging
	logging.InitGlobalLogger()
	defer logging.MustSync()

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	app := New(cfg, modules...)

	logging.Info("Dispatch engine ready",
		logging.Int("routes", len(app.Routes())),
		logging.String("entry", cfg.Entry),
	)

	event, err := readEvent(cfg.EventFile)
	if err != nil {
		logging.Error("Failed to read event", err)
		return err
	}

	switch strings.ToLower(cfg.Entry) {
	case "get":
		return printOutput(app.DoGet(event))
	case "post":
		return printOutput(app.DoPost(event))
	case "install":
		app.OnInstall(event)
	case "open":
		app.OnOpen(event)
	case "edit":
		app.OnEdit(event)
	case "change":
		app.OnChange(event)
	case "selection_change":
		app.OnSelectionChange(event)
	case "form_submit":
		app.OnFormSubmit(event)
	}
	return nil
}

func readEvent(path string) (events.Payload, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return events.Payload{}, nil
	}

	var event events.Payload
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.MalformedBodyError(err)
	}
	return event, nil
}

func printOutput(out webapp.Output) error {
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
