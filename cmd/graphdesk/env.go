package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/graphdesk/pkg/cmd"
	"github.com/dukex/graphdesk/pkg/editor"
	"github.com/dukex/graphdesk/pkg/eventbus"
	"github.com/dukex/graphdesk/pkg/events"
	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/log"
	"github.com/dukex/graphdesk/pkg/otelhelper"
	"github.com/dukex/graphdesk/pkg/persistence"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

// env holds what the store-backed commands share.
type env struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	shutdown    otelhelper.ShutdownFunc

	historyLimit  int
	moveThreshold float64
}

func setupLogger(command *cli.Command) *slog.Logger {
	log.Setup(command.String("log-level"), command.String("log-format"))

	return log.WithModule("graphdesk")
}

func newEnv(ctx context.Context, command *cli.Command) (*env, error) {
	logger := setupLogger(command)

	p, err := cmd.NewPersistence(command.String("projects-dir"))
	if err != nil {
		return nil, err
	}

	bus, err := cmd.NewEventBus("gochannel", logger)
	if err != nil {
		return nil, err
	}

	e := &env{
		logger:        logger,
		persistence:   p,
		eventBus:      bus,
		tracer:        otelhelper.NoopTracer(),
		historyLimit:  int(command.Int("history-limit")),
		moveThreshold: command.Float("move-threshold"),
	}

	if command.Bool("tracing") {
		tracer, shutdown, err := otelhelper.NewTracer(ctx, "graphdesk")
		if err != nil {
			e.close(ctx)

			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}

		e.tracer = tracer
		e.shutdown = shutdown
	}

	if err := e.watchSyncs(ctx); err != nil {
		e.close(ctx)

		return nil, err
	}

	return e, nil
}

// watchSyncs logs every propagation the editor reports.
func (e *env) watchSyncs(ctx context.Context) error {
	err := e.eventBus.Handle(events.SubWorkflowSyncedEvent, func(_ context.Context, event any) error {
		synced, ok := event.(*events.SubWorkflowSynced)
		if !ok {
			return nil
		}

		e.logger.Debug("subworkflow propagated",
			"subworkflow_id", synced.SubWorkflowID,
			"documents", synced.Documents,
			"instances", synced.Instances,
			"pruned_connections", synced.PrunedConnections)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to register event handler: %w", err)
	}

	return e.eventBus.Subscribe(ctx)
}

func (e *env) newEditor() *editor.Editor {
	return editor.New(
		editor.WithLogger(e.logger),
		editor.WithTracer(e.tracer),
		editor.WithPublisher(e.eventBus),
		editor.WithRegistry(cmd.NewRegistry(e.logger)),
		editor.WithHistoryOptions(
			history.WithMaxEntries(e.historyLimit),
			history.WithMoveThreshold(e.moveThreshold),
		),
	)
}

func (e *env) close(ctx context.Context) {
	if err := e.eventBus.Close(); err != nil {
		e.logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
	}

	if err := e.persistence.Close(ctx); err != nil {
		e.logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
	}

	if e.shutdown != nil {
		if err := e.shutdown(ctx); err != nil {
			e.logger.ErrorContext(ctx, "Failed to shut down tracer", "error", err)
		}
	}
}
