package history

import "time"

// Render statuses mirror the queue's job lifecycle.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RenderRecord is one world's render within a queue run.
type RenderRecord struct {
	ID           int64
	RunID        string
	Scene        string
	World        string
	Status       string
	ErrorMessage string
	SnapshotPath string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// VideoRecord is one completed or failed assembly run.
type VideoRecord struct {
	ID           int64
	Scene        string
	OutputPath   string
	Codec        string
	FPS          int
	Frames       int
	Skipped      int
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}
