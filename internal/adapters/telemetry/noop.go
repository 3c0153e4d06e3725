package telemetry

import (
	"context"

	"go.trai.ch/weld/internal/core/ports"
)

// Noop is a telemetry implementation that records nothing. Used in tests
// and when progress output is disabled.
type Noop struct{}

// NewNoop creates a no-op telemetry implementation.
func NewNoop() ports.Telemetry {
	return Noop{}
}

// Record implements ports.Telemetry.
func (Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close implements ports.Telemetry.
func (Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Done(error) {}
