package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/middleware"
	"github.com/caspiansol/adspark/internal/providers/captions"
	"github.com/caspiansol/adspark/internal/providers/script"
	"github.com/caspiansol/adspark/internal/prompt"
)

const testUserID = "user-1"

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.VideoJob
	err  error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.VideoJob)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *domain.VideoJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, vendorJobID string, status domain.JobStatus, errMsg *string, result *domain.RenderResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, job := range f.jobs {
		if job.VendorJobID != vendorJobID {
			continue
		}
		job.Status = status
		job.UpdatedAt = time.Now()
		if errMsg != nil {
			job.ErrorMessage = *errMsg
		}
		if result != nil {
			job.VideoURL = result.VideoURL
			job.ThumbnailURL = result.ThumbnailURL
			job.Duration = result.Duration
		}
		return nil
	}
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id, userID string) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) GetByVendorID(ctx context.Context, vendorJobID, userID string) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.VendorJobID == vendorJobID && job.UserID == userID {
			clone := *job
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeJobRepo) ListByUser(ctx context.Context, userID string) ([]domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.VideoJob
	for _, job := range f.jobs {
		if job.UserID == userID {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeJobRepo) ListPending(ctx context.Context, since time.Time) ([]domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.VideoJob
	for _, job := range f.jobs {
		if !job.Status.Terminal() && job.CreatedAt.After(since) {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountByStatus(ctx context.Context, userID string) (map[domain.JobStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.JobStatus]int)
	for _, job := range f.jobs {
		if job.UserID == userID {
			counts[job.Status]++
		}
	}
	return counts, nil
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*domain.AdTemplate
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*domain.AdTemplate)}
}

func (f *fakeTemplateRepo) Upsert(ctx context.Context, tpl *domain.AdTemplate) (*domain.AdTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.templates {
		if existing.UserID == tpl.UserID && existing.Name == tpl.Name {
			existing.Payload = tpl.Payload
			existing.UpdatedAt = time.Now()
			clone := *existing
			return &clone, nil
		}
	}
	f.nextID++
	now := time.Now()
	stored := &domain.AdTemplate{
		ID:        "tpl-" + strconv.Itoa(f.nextID),
		UserID:    tpl.UserID,
		Name:      tpl.Name,
		Payload:   tpl.Payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.templates[stored.ID] = stored
	clone := *stored
	return &clone, nil
}

func (f *fakeTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.AdTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AdTemplate
	for _, tpl := range f.templates {
		if tpl.UserID == userID {
			out = append(out, *tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id, userID string) (*domain.AdTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *tpl
	return &clone, nil
}

func (f *fakeTemplateRepo) Rename(ctx context.Context, id, userID, name string) (*domain.AdTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return nil, domain.ErrNotFound
	}
	tpl.Name = name
	tpl.UpdatedAt = time.Now()
	clone := *tpl
	return &clone, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

type fakeDraftStore struct {
	mu     sync.Mutex
	drafts map[string]*domain.WizardDraft
	err    error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]*domain.WizardDraft)}
}

func (f *fakeDraftStore) Save(ctx context.Context, userID string, d *domain.WizardDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	clone := *d
	f.drafts[userID] = &clone
	return nil
}

func (f *fakeDraftStore) Load(ctx context.Context, userID string) (*domain.WizardDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (f *fakeDraftStore) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, userID)
	return nil
}

type fakeCaptionsAPI struct {
	createErr error
	statusErr error
	jobID     string
	status    captions.StatusUpdate
	created   []prompt.VideoPayload
	checked   []string
}

func (f *fakeCaptionsAPI) CreateVideo(ctx context.Context, payload prompt.VideoPayload) (string, error) {
	f.created = append(f.created, payload)
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.jobID == "" {
		return "vend-1", nil
	}
	return f.jobID, nil
}

func (f *fakeCaptionsAPI) Status(ctx context.Context, vendorJobID string) (captions.StatusUpdate, error) {
	f.checked = append(f.checked, vendorJobID)
	if f.statusErr != nil {
		return captions.StatusUpdate{}, f.statusErr
	}
	return f.status, nil
}

type fakeGenerator struct {
	result *script.Result
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, p string) (*script.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &script.Result{Script: "generated for: " + p, Provider: "openai"}, nil
}

type testEnv struct {
	app      *App
	jobs     *fakeJobRepo
	tpls     *fakeTemplateRepo
	drafts   *fakeDraftStore
	captions *fakeCaptionsAPI
	gen      *fakeGenerator
}

func newTestEnv() *testEnv {
	env := &testEnv{
		jobs:     newFakeJobRepo(),
		tpls:     newFakeTemplateRepo(),
		drafts:   newFakeDraftStore(),
		captions: &fakeCaptionsAPI{},
		gen:      &fakeGenerator{},
	}
	env.app = NewApp(zerolog.Nop(), env.jobs, env.tpls, env.drafts, env.gen, env.captions)
	return env
}

var errBoom = errors.New("boom")

// withUser attaches the test user to the request context, the way the auth
// middleware would.

func withUser(r *http.Request) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), testUserID))
}
