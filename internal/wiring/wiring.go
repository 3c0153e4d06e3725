// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/weld/internal/adapters/config"
	_ "go.trai.ch/weld/internal/adapters/fs"
	_ "go.trai.ch/weld/internal/adapters/logger"
	_ "go.trai.ch/weld/internal/adapters/shell"
	_ "go.trai.ch/weld/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/weld/internal/app"
	_ "go.trai.ch/weld/internal/engine/coordinator"
	_ "go.trai.ch/weld/internal/engine/scheduler"
)
