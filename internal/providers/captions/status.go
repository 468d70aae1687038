package captions

import "github.com/caspiansol/adspark/internal/domain"

// VendorStatus is the raw status shape the vendor returns, both from the
// status endpoint and from webhook callbacks. Field names vary between
// revisions of the vendor API, so alternates are kept side by side.
type VendorStatus struct {
	JobID        string  `json:"job_id"`
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	VideoURL     string  `json:"video_url"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Thumbnail    string  `json:"thumbnail"`
	Duration     float64 `json:"duration"`
	Error        string  `json:"error"`
	Message      string  `json:"message"`
	Progress     int     `json:"progress"`
}

// StatusUpdate is the normalized local view of a vendor status report.
type StatusUpdate struct {
	VendorJobID  string
	Status       domain.JobStatus
	VideoURL     string
	ThumbnailURL string
	Duration     float64
	ErrorMessage string
}

// Normalize maps the vendor status onto the local lifecycle:
// completed|ready -> ready, failed|error -> failed, anything else ->
// processing. Output fields are taken from whichever alternate is set.
func (v VendorStatus) Normalize() StatusUpdate {
	update := StatusUpdate{
		VendorJobID: coalesce(v.JobID, v.ID),
		Status:      domain.JobStatusProcessing,
	}
	switch v.Status {
	case "completed", "ready":
		update.Status = domain.JobStatusReady
		update.VideoURL = coalesce(v.VideoURL, v.URL)
		update.ThumbnailURL = coalesce(v.ThumbnailURL, v.Thumbnail)
		update.Duration = v.Duration
	case "failed", "error":
		update.Status = domain.JobStatusFailed
		update.ErrorMessage = coalesce(v.Error, v.Message, "Video generation failed")
	}
	return update
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
