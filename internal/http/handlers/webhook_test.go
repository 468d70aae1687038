package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caspiansol/adspark/internal/domain"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(body []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/captions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(webhookSignatureHeader, signature)
	}
	return req
}

func TestCaptionsWebhookReady(t *testing.T) {
	env := newTestEnv()
	env.app.WebhookSecret = "hush"
	seed := &domain.VideoJob{ID: "row-1", UserID: testUserID, VendorJobID: "vend-1", Status: domain.JobStatusProcessing}
	if err := env.jobs.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	body := []byte(`{"job_id":"vend-1","status":"completed","video_url":"https://cdn/v.mp4","thumbnail":"https://cdn/t.jpg","duration":30}`)
	rec := httptest.NewRecorder()
	env.app.CaptionsWebhook(rec, webhookRequest(body, signBody("hush", body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	job, err := env.jobs.GetByVendorID(context.Background(), "vend-1", testUserID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != domain.JobStatusReady || job.VideoURL != "https://cdn/v.mp4" || job.ThumbnailURL != "https://cdn/t.jpg" {
		t.Fatalf("job = %+v", job)
	}
}

func TestCaptionsWebhookFailed(t *testing.T) {
	env := newTestEnv()
	seed := &domain.VideoJob{ID: "row-1", UserID: testUserID, VendorJobID: "vend-1", Status: domain.JobStatusProcessing}
	if err := env.jobs.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	body := []byte(`{"id":"vend-1","status":"error","message":"render exploded"}`)
	rec := httptest.NewRecorder()
	env.app.CaptionsWebhook(rec, webhookRequest(body, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	job, err := env.jobs.GetByVendorID(context.Background(), "vend-1", testUserID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != domain.JobStatusFailed || job.ErrorMessage != "render exploded" {
		t.Fatalf("job = %+v", job)
	}
}

func TestCaptionsWebhookBadSignature(t *testing.T) {
	env := newTestEnv()
	env.app.WebhookSecret = "hush"

	body := []byte(`{"job_id":"vend-1","status":"completed"}`)
	tests := []struct {
		name string
		sig  string
	}{
		{"missing signature", ""},
		{"wrong signature", signBody("other-secret", body)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.app.CaptionsWebhook(rec, webhookRequest(body, tc.sig))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestCaptionsWebhookMissingJobID(t *testing.T) {
	env := newTestEnv()
	body := []byte(`{"status":"completed"}`)
	rec := httptest.NewRecorder()
	env.app.CaptionsWebhook(rec, webhookRequest(body, ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
