package queue

import (
	"strings"
	"time"
)

// Kind selects which queue a job belongs to. Both kinds share one table.
type Kind string

const (
	// KindDelivery moves finished assets to a station's playout system.
	KindDelivery Kind = "delivery"
	// KindStorage mirrors assets to long-term storage.
	KindStorage Kind = "storage"
)

var allKinds = []Kind{KindDelivery, KindStorage}

// AllKinds returns the ordered list of queue kinds.
func AllKinds() []Kind {
	cp := make([]Kind, len(allKinds))
	copy(cp, allKinds)
	return cp
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range allKinds {
		if k == normalized {
			return k, true
		}
	}
	return "", false
}

// Status represents the lifecycle of a queue job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConnecting Status = "connecting"
	StatusUploading  Status = "uploading"
	StatusVerifying  Status = "verifying"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
	StatusPaused     Status = "paused"
)

var allStatuses = []Status{
	StatusPending,
	StatusConnecting,
	StatusUploading,
	StatusVerifying,
	StatusComplete,
	StatusFailed,
	StatusPaused,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var transferStatuses = map[Status]struct{}{
	StatusConnecting: {},
	StatusUploading:  {},
	StatusVerifying:  {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTransferStatus reports whether a status reflects an in-flight transfer.
func IsTransferStatus(status Status) bool {
	_, ok := transferStatuses[status]
	return ok
}

// HealthSummary describes aggregated queue counts per key lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	InTransfer int
	Paused     int
	Failed     int
	Complete   int
}

// Job represents one queued transfer persisted in SQLite.
type Job struct {
	ID           int64
	Kind         Kind
	StationID    string
	SourcePath   string
	RemotePath   string
	SidecarName  string
	SidecarBody  string
	AssetJSON    string
	Status       Status
	Progress     float64
	ErrorMessage string
	RetryCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// IsTerminal reports whether the job needs no further pumping.
func (j Job) IsTerminal() bool {
	return j.Status == StatusComplete || j.Status == StatusFailed
}

// InTransfer returns true while the job is moving through a transfer phase.
func (j Job) InTransfer() bool {
	return IsTransferStatus(j.Status)
}

// SetFailed marks the job as failed with the given message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
}

// SetProgress clamps and records transfer progress in [0, 1].
func (j *Job) SetProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	j.Progress = fraction
}
