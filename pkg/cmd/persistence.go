package cmd

import (
	"fmt"
	"strings"

	"github.com/dukex/graphdesk/pkg/persistence"
	"github.com/dukex/graphdesk/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file"}

// NewPersistence picks a persistence implementation from the URL scheme.
// A bare path is treated as a file:// URL.
func NewPersistence(databaseURL string) (persistence.Persistence, error) {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	case "file":
		return file.NewPersistence(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported persistence provider: %s", provider)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.SplitN(databaseURL, "://", 2)
	if len(parts) == 1 {
		return "file"
	}

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return provider
}
