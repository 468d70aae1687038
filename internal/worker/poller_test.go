package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/providers/captions"
	"github.com/caspiansol/adspark/internal/prompt"
)

type stubRepo struct {
	mu      sync.Mutex
	pending []domain.VideoJob
	updates []statusUpdateCall
}

type statusUpdateCall struct {
	vendorJobID string
	status      domain.JobStatus
	errMsg      string
}

func (s *stubRepo) Create(ctx context.Context, job *domain.VideoJob) error { return nil }

func (s *stubRepo) UpdateStatus(ctx context.Context, vendorJobID string, status domain.JobStatus, errMsg *string, result *domain.RenderResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := statusUpdateCall{vendorJobID: vendorJobID, status: status}
	if errMsg != nil {
		call.errMsg = *errMsg
	}
	s.updates = append(s.updates, call)
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id, userID string) (*domain.VideoJob, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) GetByVendorID(ctx context.Context, vendorJobID, userID string) (*domain.VideoJob, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) ListByUser(ctx context.Context, userID string) ([]domain.VideoJob, error) {
	return nil, nil
}

func (s *stubRepo) ListPending(ctx context.Context, since time.Time) ([]domain.VideoJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.VideoJob(nil), s.pending...), nil
}

func (s *stubRepo) CountByStatus(ctx context.Context, userID string) (map[domain.JobStatus]int, error) {
	return nil, nil
}

func (s *stubRepo) calls() []statusUpdateCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]statusUpdateCall(nil), s.updates...)
}

type stubAPI struct {
	mu      sync.Mutex
	results []captions.StatusUpdate
	errs    []error
	checks  int
}

func (s *stubAPI) CreateVideo(ctx context.Context, payload prompt.VideoPayload) (string, error) {
	return "", errors.New("not used")
}

func (s *stubAPI) Status(ctx context.Context, vendorJobID string) (captions.StatusUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.checks
	s.checks++
	if i < len(s.errs) && s.errs[i] != nil {
		return captions.StatusUpdate{}, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	if len(s.results) > 0 {
		return s.results[len(s.results)-1], nil
	}
	return captions.StatusUpdate{VendorJobID: vendorJobID, Status: domain.JobStatusProcessing}, nil
}

func (s *stubAPI) checkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

func fastOptions(maxAttempts int) Options {
	return Options{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		MaxAttempts:    maxAttempts,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPollerStopsOnReady(t *testing.T) {
	repo := &stubRepo{}
	api := &stubAPI{results: []captions.StatusUpdate{
		{VendorJobID: "vend-1", Status: domain.JobStatusProcessing},
		{VendorJobID: "vend-1", Status: domain.JobStatusReady, VideoURL: "https://cdn/v.mp4"},
	}}
	p := NewPoller(zerolog.Nop(), repo, api, fastOptions(10))

	p.Track(context.Background(), "vend-1")
	waitFor(t, func() bool { return len(repo.calls()) == 1 })
	p.Stop()

	calls := repo.calls()
	if calls[0].status != domain.JobStatusReady {
		t.Fatalf("final status = %q", calls[0].status)
	}
	if api.checkCount() != 2 {
		t.Fatalf("checks = %d, want 2", api.checkCount())
	}
}

func TestPollerMarksFailedAfterMaxAttempts(t *testing.T) {
	repo := &stubRepo{}
	api := &stubAPI{}
	p := NewPoller(zerolog.Nop(), repo, api, fastOptions(3))

	p.Track(context.Background(), "vend-1")
	waitFor(t, func() bool { return len(repo.calls()) == 1 })
	p.Stop()

	if api.checkCount() != 3 {
		t.Fatalf("checks = %d, want 3", api.checkCount())
	}
	calls := repo.calls()
	if calls[0].status != domain.JobStatusFailed {
		t.Fatalf("updates = %+v, want one failed", calls)
	}
	if calls[0].errMsg == "" {
		t.Fatal("timeout failure carries no message")
	}
}

func TestPollerSurvivesTransientErrors(t *testing.T) {
	repo := &stubRepo{}
	api := &stubAPI{
		errs: []error{errors.New("flaky"), nil},
		results: []captions.StatusUpdate{
			{},
			{VendorJobID: "vend-1", Status: domain.JobStatusReady},
		},
	}
	p := NewPoller(zerolog.Nop(), repo, api, fastOptions(10))

	p.Track(context.Background(), "vend-1")
	waitFor(t, func() bool { return len(repo.calls()) == 1 })
	p.Stop()

	calls := repo.calls()
	if calls[0].status != domain.JobStatusReady {
		t.Fatalf("updates = %+v", calls)
	}
}

func TestSweepDeduplicatesTrackers(t *testing.T) {
	repo := &stubRepo{pending: []domain.VideoJob{
		{VendorJobID: "vend-1", Status: domain.JobStatusProcessing, CreatedAt: time.Now()},
	}}
	api := &stubAPI{}
	p := NewPoller(zerolog.Nop(), repo, api, fastOptions(1000))

	ctx, cancel := context.WithCancel(context.Background())
	p.Sweep(ctx)
	p.Sweep(ctx)

	p.mu.Lock()
	tracked := len(p.tracking)
	p.mu.Unlock()
	if tracked != 1 {
		t.Fatalf("trackers = %d, want 1", tracked)
	}

	cancel()
	p.Stop()
}

func TestCancelStopsTracker(t *testing.T) {
	repo := &stubRepo{}
	api := &stubAPI{}
	p := NewPoller(zerolog.Nop(), repo, api, Options{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		MaxAttempts:    100000,
	})

	p.Track(context.Background(), "vend-1")
	waitFor(t, func() bool { return api.checkCount() > 0 })
	p.Cancel("vend-1")
	p.Stop()

	if calls := repo.calls(); len(calls) != 0 {
		t.Fatalf("cancelled tracker wrote updates: %+v", calls)
	}
}
