package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/timmy/captionrelay/internal/app"
	"github.com/timmy/captionrelay/internal/config"
	"github.com/timmy/captionrelay/internal/logger"
)

type rootOptions struct {
	configPath string
}

// loadApp builds the services without metrics. Logs go to stderr so stdout
// carries only command output.
func loadApp(ctx context.Context, opts *rootOptions, stderr io.Writer) (*app.App, error) {
	logger.SetDefaultLogger(logger.New(&logger.Config{
		Level:       "warn",
		Format:      "text",
		Output:      stderr,
		ServiceName: "captionctl",
	}))

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, nil)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
