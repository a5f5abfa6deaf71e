package main

import (
	"context"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("graphdesk failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "graphdesk",
		Usage:                 "Validate, inspect and maintain workflow project files",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "projects-dir",
				Usage:   "Directory (or file:// URL) holding stored projects",
				Value:   "./data",
				Sources: cli.EnvVars("GRAPHDESK_PROJECTS_DIR"),
			},
			&cli.IntFlag{
				Name:    "history-limit",
				Usage:   "Maximum timeline entries kept per document (0 keeps all)",
				Value:   0,
				Sources: cli.EnvVars("GRAPHDESK_HISTORY_LIMIT"),
			},
			&cli.FloatFlag{
				Name:    "move-threshold",
				Usage:   "Smallest node move, in canvas units, that is recorded on the timeline",
				Value:   5,
				Sources: cli.EnvVars("GRAPHDESK_MOVE_THRESHOLD"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("GRAPHDESK_TRACING"),
			},
		},
		Commands: []*cli.Command{
			validateCommand(),
			inspectCommand(),
			convertCommand(),
			syncCommand(),
			importCommand(),
			listCommand(),
		},
	}
}
