// Package captions wraps the text-to-video vendor API: job creation and
// status checks, plus the shared vendor-to-local status mapping used by both
// the poll path and the webhook path.
package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caspiansol/adspark/internal/prompt"
)

// API is the vendor surface the orchestrator depends on.
type API interface {
	CreateVideo(ctx context.Context, payload prompt.VideoPayload) (string, error)
	Status(ctx context.Context, vendorJobID string) (StatusUpdate, error)
}

// Options configures the vendor client.
type Options struct {
	BaseURL     string
	APIKey      string
	WorkspaceID string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// Client talks to the Captions.ai API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	workspaceID string
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("captions: api key is required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.captions.ai/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient:  client,
		baseURL:     base,
		apiKey:      strings.TrimSpace(opts.APIKey),
		workspaceID: strings.TrimSpace(opts.WorkspaceID),
	}, nil
}

type createResponse struct {
	JobID string `json:"job_id"`
	ID    string `json:"id"`
}

// CreateVideo submits a render request and returns the vendor job id.
func (c *Client) CreateVideo(ctx context.Context, payload prompt.VideoPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("captions: encode payload: %w", err)
	}
	endpoint := c.baseURL + "/creator/videos"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("captions: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("captions: create video: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusForbidden {
		return "", errors.New("captions: forbidden, check api key and workspace id")
	}
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("captions: create video status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("captions: decode response: %w", err)
	}
	jobID := out.JobID
	if jobID == "" {
		jobID = out.ID
	}
	if jobID == "" {
		return "", errors.New("captions: response missing job id")
	}
	return jobID, nil
}

// Status fetches and normalizes the vendor status for a job.
func (c *Client) Status(ctx context.Context, vendorJobID string) (StatusUpdate, error) {
	endpoint := fmt.Sprintf("%s/creator/videos/%s/status", c.baseURL, vendorJobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return StatusUpdate{}, fmt.Errorf("captions: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUpdate{}, fmt.Errorf("captions: status check: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return StatusUpdate{}, fmt.Errorf("captions: status check status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	var vendor VendorStatus
	if err := json.NewDecoder(resp.Body).Decode(&vendor); err != nil {
		return StatusUpdate{}, fmt.Errorf("captions: decode status: %w", err)
	}
	return vendor.Normalize(), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.workspaceID != "" {
		req.Header.Set("x-workspace-id", c.workspaceID)
	}
}

var _ API = (*Client)(nil)
