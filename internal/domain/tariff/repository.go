package tariff

import (
	"context"

	"github.com/google/uuid"
)

// ConfigurationRepository defines the interface for configuration persistence
type ConfigurationRepository interface {
	// FindByID finds a configuration version by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Configuration, error)

	// FindActive returns the currently active configuration, or nil if none exists
	FindActive(ctx context.Context) (*Configuration, error)

	// FindAll returns every configuration version, newest first
	FindAll(ctx context.Context) ([]Configuration, error)

	// Rotate deactivates every stored version and inserts the given
	// configuration as the new active one, atomically
	Rotate(ctx context.Context, config *Configuration) error
}
