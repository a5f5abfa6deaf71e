package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/graphdesk/pkg/channels/gochannel"
	"github.com/dukex/graphdesk/pkg/eventbus"
)

// NewEventBus creates an event bus for the given provider. Only the in-process
// "gochannel" provider exists; editor events never leave the process.
func NewEventBus(provider string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch provider {
	case "", "gochannel":
		adapter := watermill.NewSlogLogger(logger)

		pub, sub, err := gochannel.CreateChannel(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create gochannel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, adapter), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
