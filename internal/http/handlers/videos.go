package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/caspiansol/adspark/internal/creators"
	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/placeholder"
	"github.com/caspiansol/adspark/internal/prompt"
	"github.com/caspiansol/adspark/internal/providers/captions"
)

type videoCreateRequest struct {
	State  domain.WizardState `json:"state"`
	Script string             `json:"script"`
}

type videoCreateResponse struct {
	VideoID string           `json:"video_id"`
	JobID   string           `json:"job_id"`
	Status  domain.JobStatus `json:"status"`
	Title   string           `json:"title"`
}

// VideosCreate validates the final wizard state and script, submits the
// render to the vendor, and records the job with its exact payload so a
// failed job can be replayed later.
func (a *App) VideosCreate(w http.ResponseWriter, r *http.Request) {
	var req videoCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	req.Script = strings.TrimSpace(req.Script)
	if req.Script == "" {
		a.error(w, http.StatusUnprocessableEntity, "script_required", domain.ErrScriptRequired.Error())
		return
	}
	if placeholder.LooksLikeTemplate(req.Script) {
		a.error(w, http.StatusUnprocessableEntity, "template_detected", domain.ErrTemplateDetected.Error())
		return
	}
	if err := req.State.Validate(); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "incomplete_state", err.Error())
		return
	}
	if !req.State.NoAvatar {
		canonical := creators.Resolve(req.State.SelectedCreator)
		if canonical == "" {
			a.error(w, http.StatusUnprocessableEntity, "unsupported_creator", domain.ErrUnsupportedCreator.Error())
			return
		}
		req.State.SelectedCreator = canonical
	}

	payload := prompt.BuildVideoPayload(req.State, req.Script)
	userID := a.currentUserID(r)
	job, err := a.submitJob(r, userID, prompt.JobTitle(req.State), payload)
	if err != nil {
		a.Log.Error().Err(err).Msg("video job creation failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "video vendor rejected the job")
		return
	}

	a.json(w, http.StatusAccepted, videoCreateResponse{
		VideoID: job.ID,
		JobID:   job.VendorJobID,
		Status:  job.Status,
		Title:   job.Title,
	})
}

// submitJob runs one render submission: vendor call first, then the local
// row. Shared by create and retry.
func (a *App) submitJob(r *http.Request, userID, title string, payload prompt.VideoPayload) (*domain.VideoJob, error) {
	vendorJobID, err := a.Captions.CreateVideo(r.Context(), payload)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	job := &domain.VideoJob{
		ID:          uuid.NewString(),
		UserID:      userID,
		VendorJobID: vendorJobID,
		Title:       title,
		Status:      domain.JobStatusProcessing,
		PayloadJSON: raw,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		return nil, err
	}
	return job, nil
}

// VideosList returns the caller's job library, newest first, with a status
// summary alongside.
func (a *App) VideosList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	jobs, err := a.Jobs.ListByUser(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Msg("video list failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not list videos")
		return
	}
	if jobs == nil {
		jobs = []domain.VideoJob{}
	}
	counts, err := a.Jobs.CountByStatus(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Msg("video status counts failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not list videos")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"videos": jobs,
		"counts": counts,
	})
}

// VideoStatus reports the current state of a job. Terminal jobs are served
// from the store; anything else triggers a vendor check whose result is
// persisted before responding. A vendor error on this explicit check marks
// the job failed.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	vendorJobID := chi.URLParam(r, "job_id")
	userID := a.currentUserID(r)

	job, err := a.Jobs.GetByVendorID(r.Context(), vendorJobID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Log.Error().Err(err).Msg("job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not load job")
		return
	}
	if job.Status.Terminal() {
		a.json(w, http.StatusOK, job)
		return
	}

	update, err := a.Captions.Status(r.Context(), vendorJobID)
	if err != nil {
		a.Log.Error().Err(err).Str("job_id", vendorJobID).Msg("vendor status check failed")
		msg := "Status check failed"
		if uerr := a.Jobs.UpdateStatus(r.Context(), vendorJobID, domain.JobStatusFailed, &msg, nil); uerr != nil {
			a.Log.Error().Err(uerr).Msg("job update failed")
		}
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = msg
		a.json(w, http.StatusOK, job)
		return
	}

	if err := a.applyUpdate(r, job, update); err != nil {
		a.Log.Error().Err(err).Msg("job update failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not update job")
		return
	}
	a.json(w, http.StatusOK, job)
}

// applyUpdate persists a normalized vendor report onto the job row and
// mirrors it into the in-memory copy for the response.
func (a *App) applyUpdate(r *http.Request, job *domain.VideoJob, update captions.StatusUpdate) error {
	var errMsg *string
	var result *domain.RenderResult
	switch update.Status {
	case domain.JobStatusReady:
		result = &domain.RenderResult{
			VideoURL:     update.VideoURL,
			ThumbnailURL: update.ThumbnailURL,
			Duration:     update.Duration,
		}
	case domain.JobStatusFailed:
		msg := update.ErrorMessage
		errMsg = &msg
	}
	if err := a.Jobs.UpdateStatus(r.Context(), job.VendorJobID, update.Status, errMsg, result); err != nil {
		return err
	}
	job.Status = update.Status
	if result != nil {
		job.VideoURL = result.VideoURL
		job.ThumbnailURL = result.ThumbnailURL
		job.Duration = result.Duration
	}
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	return nil
}

// VideoRetry replays the stored payload of a failed job as a brand-new
// submission. The failed row is left untouched.
func (a *App) VideoRetry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := a.currentUserID(r)

	job, err := a.Jobs.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Log.Error().Err(err).Msg("job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not load job")
		return
	}
	if job.Status != domain.JobStatusFailed {
		a.error(w, http.StatusConflict, "not_retryable", domain.ErrJobNotRetryable.Error())
		return
	}
	var payload prompt.VideoPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		a.Log.Error().Err(err).Msg("stored payload is unreadable")
		a.error(w, http.StatusInternalServerError, "internal", "stored payload is unreadable")
		return
	}

	fresh, err := a.submitJob(r, userID, job.Title, payload)
	if err != nil {
		a.Log.Error().Err(err).Msg("retry submission failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "video vendor rejected the job")
		return
	}
	a.json(w, http.StatusAccepted, videoCreateResponse{
		VideoID: fresh.ID,
		JobID:   fresh.VendorJobID,
		Status:  fresh.Status,
		Title:   fresh.Title,
	})
}

// VideoDownload streams the rendered video through the server with an
// attachment disposition, so the browser saves instead of playing it.
func (a *App) VideoDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := a.currentUserID(r)

	job, err := a.Jobs.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Log.Error().Err(err).Msg("job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not load job")
		return
	}
	if job.Status != domain.JobStatusReady || job.VideoURL == "" {
		a.error(w, http.StatusConflict, "not_ready", "video is not ready for download")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, job.VideoURL, nil)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "could not fetch video")
		return
	}
	resp, err := a.Downloader.Do(req)
	if err != nil {
		a.Log.Error().Err(err).Msg("video fetch failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "could not fetch video")
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		a.error(w, http.StatusBadGateway, "provider_failure", "could not fetch video")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename(job.Title)+`"`)
	if resp.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		a.Log.Warn().Err(err).Msg("video stream interrupted")
	}
}

// downloadFilename lowercases the title and collapses every non-alphanumeric
// run to underscores.
func downloadFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ".mp4"
}
