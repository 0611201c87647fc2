package entities

// JobStatus represents the lifecycle state of a generation job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether no further transition is possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether the status may move to next.
// The machine is strictly queued -> running -> completed|failed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusQueued:
		return next == JobStatusRunning
	case JobStatusRunning:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// FieldError describes a single structural validation issue in
// collaborator output
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// JobError is the structured error recorded on a failed job
type JobError struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// Job is a tracked unit of asynchronous generation work. Timestamps are
// epoch milliseconds; StartedAt and CompletedAt are zero until the
// corresponding transition happened.
type Job struct {
	JobID       string    `json:"jobId"`
	Status      JobStatus `json:"status"`
	Prompt      string    `json:"prompt"`
	CreatedBy   string    `json:"createdBy"`
	Plan        *TripPlan `json:"data,omitempty"`
	Error       *JobError `json:"error,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	StartedAt   int64     `json:"startedAt,omitempty"`
	CompletedAt int64     `json:"completedAt,omitempty"`
}
