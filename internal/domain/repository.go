package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for video jobs.
type JobRepository interface {
	Create(ctx context.Context, job *VideoJob) error
	// UpdateStatus updates the lifecycle fields of the job with the given
	// vendor job id. Result and error message are applied only when present.
	UpdateStatus(ctx context.Context, vendorJobID string, status JobStatus, errMsg *string, result *RenderResult) error
	GetByID(ctx context.Context, id, userID string) (*VideoJob, error)
	GetByVendorID(ctx context.Context, vendorJobID, userID string) (*VideoJob, error)
	ListByUser(ctx context.Context, userID string) ([]VideoJob, error)
	// ListPending returns all non-terminal jobs created after the cutoff,
	// across users. Used by the poll sweeper.
	ListPending(ctx context.Context, since time.Time) ([]VideoJob, error)
	CountByStatus(ctx context.Context, userID string) (map[JobStatus]int, error)
}

// TemplateRepository defines persistence for saved ad templates, always
// scoped to the owning user.
type TemplateRepository interface {
	Upsert(ctx context.Context, tpl *AdTemplate) (*AdTemplate, error)
	ListByUser(ctx context.Context, userID string) ([]AdTemplate, error)
	GetByID(ctx context.Context, id, userID string) (*AdTemplate, error)
	Rename(ctx context.Context, id, userID, name string) (*AdTemplate, error)
	Delete(ctx context.Context, id, userID string) error
}

// DraftStore persists one wizard draft per user. Load returns ErrNotFound
// when no draft exists.
type DraftStore interface {
	Save(ctx context.Context, userID string, draft *WizardDraft) error
	Load(ctx context.Context, userID string) (*WizardDraft, error)
	Clear(ctx context.Context, userID string) error
}
