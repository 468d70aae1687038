// Package worker polls the video vendor for jobs that have not reached a
// terminal state, as a backstop for missed webhook callbacks.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/providers/captions"
)

// Options tunes the polling loop.
type Options struct {
	// InitialBackoff is the delay before the first status check.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential growth of the delay.
	MaxBackoff time.Duration
	// MaxAttempts bounds checks per job; exceeding it marks the job failed.
	MaxAttempts int
	// PendingWindow bounds how far back the sweep looks for open jobs.
	PendingWindow time.Duration
}

func (o *Options) withDefaults() {
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 5 * time.Second
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 60 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 40
	}
	if o.PendingWindow <= 0 {
		o.PendingWindow = 24 * time.Hour
	}
}

// Poller tracks open jobs until they finish. Each job gets its own goroutine
// with exponential backoff; the sweep only starts trackers for jobs that are
// not already tracked.
type Poller struct {
	log  zerolog.Logger
	jobs domain.JobRepository
	api  captions.API
	opts Options

	mu       sync.Mutex
	tracking map[string]context.CancelFunc
	wg       sync.WaitGroup
}

func NewPoller(log zerolog.Logger, jobs domain.JobRepository, api captions.API, opts Options) *Poller {
	opts.withDefaults()
	return &Poller{
		log:      log,
		jobs:     jobs,
		api:      api,
		opts:     opts,
		tracking: make(map[string]context.CancelFunc),
	}
}

// Sweep lists open jobs and starts a tracker for each one that is not
// already being tracked. Safe to call from a scheduler at any interval.
func (p *Poller) Sweep(ctx context.Context) {
	since := time.Now().Add(-p.opts.PendingWindow)
	pending, err := p.jobs.ListPending(ctx, since)
	if err != nil {
		p.log.Error().Err(err).Msg("pending job sweep failed")
		return
	}
	for _, job := range pending {
		p.Track(ctx, job.VendorJobID)
	}
}

// Track starts a polling goroutine for the vendor job id unless one is
// already running.
func (p *Poller) Track(ctx context.Context, vendorJobID string) {
	p.mu.Lock()
	if _, ok := p.tracking[vendorJobID]; ok {
		p.mu.Unlock()
		return
	}
	jobCtx, cancel := context.WithCancel(ctx)
	p.tracking[vendorJobID] = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.untrack(vendorJobID)
		p.poll(jobCtx, vendorJobID)
	}()
}

// Cancel stops the tracker for a job, if any.
func (p *Poller) Cancel(vendorJobID string) {
	p.mu.Lock()
	cancel, ok := p.tracking[vendorJobID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Stop cancels every tracker and waits for them to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	for _, cancel := range p.tracking {
		cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Poller) untrack(vendorJobID string) {
	p.mu.Lock()
	if cancel, ok := p.tracking[vendorJobID]; ok {
		cancel()
		delete(p.tracking, vendorJobID)
	}
	p.mu.Unlock()
}

func (p *Poller) poll(ctx context.Context, vendorJobID string) {
	backoff := p.opts.InitialBackoff
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		update, err := p.api.Status(ctx, vendorJobID)
		if err != nil {
			p.log.Warn().Err(err).Str("job_id", vendorJobID).Int("attempt", attempt).Msg("status check failed")
		} else if p.apply(ctx, vendorJobID, update) {
			return
		}

		backoff *= 2
		if backoff > p.opts.MaxBackoff {
			backoff = p.opts.MaxBackoff
		}
	}

	msg := "Timed out waiting for the render to finish"
	if err := p.jobs.UpdateStatus(ctx, vendorJobID, domain.JobStatusFailed, &msg, nil); err != nil {
		p.log.Error().Err(err).Str("job_id", vendorJobID).Msg("timeout update failed")
		return
	}
	p.log.Warn().Str("job_id", vendorJobID).Int("attempts", p.opts.MaxAttempts).Msg("job marked failed after max attempts")
}

// apply persists a vendor report and reports whether polling can stop.
func (p *Poller) apply(ctx context.Context, vendorJobID string, update captions.StatusUpdate) bool {
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
	default:
		return false
	}
	if err := p.jobs.UpdateStatus(ctx, vendorJobID, update.Status, errMsg, result); err != nil {
		p.log.Error().Err(err).Str("job_id", vendorJobID).Msg("job update failed")
		return false
	}
	p.log.Info().Str("job_id", vendorJobID).Str("status", string(update.Status)).Msg("job finished")
	return true
}
