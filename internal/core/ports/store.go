package ports

import "go.trai.ch/weld/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build
// information used by the up-to-date check.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a given task path.
	// Returns nil, nil if not found.
	Get(taskPath string) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(info domain.BuildInfo) error
}
