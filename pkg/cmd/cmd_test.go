package cmd

import (
	"log/slog"
	"testing"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"file:///tmp/graphdesk", false},
		{"/tmp/graphdesk", false},
		{"./data", false},
		{"postgres://localhost/db", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p, err := NewPersistence(tt.url)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, &file.Persistence{}, p)
		})
	}
}

func TestNewEventBus(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	bus, err := NewEventBus("gochannel", logger)
	require.NoError(t, err)
	require.NotNil(t, bus)
	assert.NoError(t, bus.Close())

	_, err = NewEventBus("kafka", logger)
	assert.Error(t, err)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(slog.New(slog.DiscardHandler))

	_, ok := reg.NodeDefinition(models.NodeTypeSubWorkflow)
	assert.True(t, ok)
}
