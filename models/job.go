package models

import "time"

// JobStatus is the lifecycle state of a batch optimization job.
type JobStatus string

const (
	StatusStarting   JobStatus = "starting"
	StatusProcessing JobStatus = "processing"
	StatusUploading  JobStatus = "uploading"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ResultType tags the two delivery shapes a completed job can have.
type ResultType string

const (
	ResultURLs    ResultType = "urls"
	ResultArchive ResultType = "archive"
)

// JobResult is the payload of a completed job: either one hosted URL per
// input image, or a single zip archive covering the whole batch.
type JobResult struct {
	Type     ResultType `json:"type"`
	URLs     []string   `json:"urls,omitempty"`
	Archive  []byte     `json:"-"`
	Filename string     `json:"filename,omitempty"`
}

// JobState is the full snapshot of one job as held by the store and
// returned to pollers. Total is fixed at creation; Progress counts fully
// optimized items and never decreases while the job is live. Exactly one
// of Result/Error is set, and only in a terminal status.
type JobState struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	Progress   int        `json:"progress"`
	Total      int        `json:"total"`
	Info       string     `json:"info,omitempty"`
	Result     *JobResult `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	FinishedAt time.Time  `json:"-"`
}

// NamedFile is one batch item: the client-supplied filename plus content.
type NamedFile struct {
	Name string
	Data []byte
}
