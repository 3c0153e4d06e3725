package domain

import "time"

// BuildInfo records the output fingerprint of one completed task, used
// for the up-to-date check on subsequent runs.
type BuildInfo struct {
	TaskPath   string    `json:"task_path"`
	OutputHash string    `json:"output_hash"`
	Timestamp  time.Time `json:"timestamp"`
}
