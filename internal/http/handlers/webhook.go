package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/providers/captions"
)

const webhookSignatureHeader = "X-Captions-Signature"

// CaptionsWebhook handles vendor render callbacks. The signature is an
// HMAC-SHA256 hex digest of the raw body; verification is skipped only when
// no webhook secret is configured.
func (a *App) CaptionsWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not read body")
		return
	}
	if a.WebhookSecret != "" && !verifySignature(body, r.Header.Get(webhookSignatureHeader), a.WebhookSecret) {
		a.error(w, http.StatusUnauthorized, "bad_signature", "signature mismatch")
		return
	}

	var vendor captions.VendorStatus
	if err := json.Unmarshal(body, &vendor); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	update := vendor.Normalize()
	if update.VendorJobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "missing job id")
		return
	}

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

	if err := a.Jobs.UpdateStatus(r.Context(), update.VendorJobID, update.Status, errMsg, result); err != nil {
		a.Log.Error().Err(err).Str("job_id", update.VendorJobID).Msg("webhook job update failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not update job")
		return
	}
	a.Log.Info().Str("job_id", update.VendorJobID).Str("status", string(update.Status)).Msg("webhook processed")
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
