package ports

import (
	"context"
	"time"
)

// CaptureEntry describes one begun capture.
type CaptureEntry struct {
	SessionID        string    `json:"sessionId"`
	Mode             string    `json:"mode"`
	Map              string    `json:"map"`
	Artifact         string    `json:"artifact"`
	SessionDirectory string    `json:"sessionDirectory"`
	Retry            int       `json:"retry"`
	StartedAt        time.Time `json:"startedAt"`
}

// Journal records begun captures. Failures never affect the session.
type Journal interface {
	RecordCapture(ctx context.Context, entry CaptureEntry) error
	RecentCaptures(ctx context.Context, limit int) ([]CaptureEntry, error)
}
