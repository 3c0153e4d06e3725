package ports

import "go.trai.ch/weld/internal/core/domain"

// ConfigLoader loads the composite session definition.
type ConfigLoader interface {
	// Load reads the session configuration from the given path.
	Load(path string) (*domain.Session, error)
}
