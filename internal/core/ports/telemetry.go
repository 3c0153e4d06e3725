package ports

import "context"

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Done marks the vertex finished, with err non-nil on failure.
	Done(err error)
}

// Telemetry records task execution progress.
type Telemetry interface {
	// Record starts recording a new vertex with the given display name.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}
