package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caspiansol/adspark/internal/domain"
)

// TemplateRepositoryPG implements domain.TemplateRepository.
type TemplateRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new ad template repository backed by PostgreSQL.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepositoryPG {
	return &TemplateRepositoryPG{pool: pool}
}

// Upsert saves a template, overwriting the payload when the user already has
// a template with the same name.
func (r *TemplateRepositoryPG) Upsert(ctx context.Context, tpl *domain.AdTemplate) (*domain.AdTemplate, error) {
	payload, err := json.Marshal(tpl.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode template payload: %w", err)
	}
	id := tpl.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
INSERT INTO ad_templates (id, user_id, name, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
RETURNING id, user_id, name, payload, created_at, updated_at;
`
	return r.scanTemplate(r.pool.QueryRow(ctx, query, id, tpl.UserID, tpl.Name, payload))
}

// ListByUser returns the user's templates, newest first.
func (r *TemplateRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.AdTemplate, error) {
	query := `
SELECT id, user_id, name, payload, created_at, updated_at
FROM ad_templates
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.AdTemplate
	for rows.Next() {
		var tpl domain.AdTemplate
		var payload []byte
		if err := rows.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &payload, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &tpl.Payload); err != nil {
			return nil, fmt.Errorf("decode template payload: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByID fetches a template by id, scoped to its owner.
func (r *TemplateRepositoryPG) GetByID(ctx context.Context, id, userID string) (*domain.AdTemplate, error) {
	query := `
SELECT id, user_id, name, payload, created_at, updated_at
FROM ad_templates
WHERE id = $1 AND user_id = $2;
`
	return r.scanTemplate(r.pool.QueryRow(ctx, query, id, userID))
}

// Rename updates a template's name, scoped to its owner.
func (r *TemplateRepositoryPG) Rename(ctx context.Context, id, userID, name string) (*domain.AdTemplate, error) {
	query := `
UPDATE ad_templates
SET name = $3, updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, name, payload, created_at, updated_at;
`
	return r.scanTemplate(r.pool.QueryRow(ctx, query, id, userID, name))
}

// Delete removes a template, scoped to its owner.
func (r *TemplateRepositoryPG) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM ad_templates
WHERE id = $1 AND user_id = $2;
`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TemplateRepositoryPG) scanTemplate(row pgx.Row) (*domain.AdTemplate, error) {
	var tpl domain.AdTemplate
	var payload []byte
	if err := row.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &payload, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &tpl.Payload); err != nil {
		return nil, fmt.Errorf("decode template payload: %w", err)
	}
	return &tpl, nil
}

var _ domain.TemplateRepository = (*TemplateRepositoryPG)(nil)
