package domain

import "time"

// JobStatus enumerates the video job lifecycle states.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusReady      JobStatus = "ready"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is final. Terminal jobs are never
// polled again; their stored fields are served as-is.
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

// VideoJob tracks one vendor rendering request. Rows are created on submit,
// updated by poll responses and webhook callbacks, and never deleted. The
// exact outbound payload is kept so a failed job can be replayed.
type VideoJob struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	VendorJobID  string    `json:"job_id"`
	Title        string    `json:"title"`
	Status       JobStatus `json:"status"`
	VideoURL     string    `json:"video_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     float64   `json:"duration,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	PayloadJSON  []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RenderResult carries the output fields of a finished render.
type RenderResult struct {
	VideoURL     string
	ThumbnailURL string
	Duration     float64
}
