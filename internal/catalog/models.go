package catalog

import "time"

// Kind identifies what a run did.
type Kind string

const (
	KindEncode Kind = "encode"
	KindDecode Kind = "decode"
	KindDraw   Kind = "draw"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusAbandoned Status = "abandoned"
)

// Run is one recorded invocation.
type Run struct {
	ID            string
	Kind          Kind
	Input         string
	Output        string
	Posterization string
	Mutation      string
	Seed          uint64
	FPS           int
	Width         int
	Height        int
	Frames        int
	Symbols       int
	Mutated       int
	Padded        int
	Checksum      string
	Status        Status
	Error         string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Duration returns the run's wall time, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the totals recorded when a run finishes.
// Empty strings leave the stored value unchanged.
type Outcome struct {
	Output        string
	Posterization string
	FPS           int
	Width         int
	Height        int
	Frames        int
	Symbols       int
	Mutated       int
	Padded        int
	Checksum      string
}
