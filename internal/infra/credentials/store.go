// Package credentials loads vendor secrets from the service_credentials
// table, used as a fallback when the corresponding environment variable is
// not set.
package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ProviderCaptions        = "captions"
	ProviderCaptionsWebhook = "captions_webhook"
	ProviderOpenAI          = "openai"
)

// Querier is the query surface the store needs. *pgxpool.Pool satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	q Querier
}

func NewStore(q Querier) *Store {
	return &Store{q: q}
}

// CaptionsAPIKey returns the stored vendor API key, or "" when absent.
func (s *Store) CaptionsAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderCaptions)
}

// CaptionsWebhookSecret returns the stored webhook signing secret, or "".
func (s *Store) CaptionsWebhookSecret(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderCaptionsWebhook)
}

// Token returns the stored secret for a provider, "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.q.QueryRow(ctx, `
SELECT token
FROM service_credentials
WHERE provider = $1;
`, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken stores or replaces the secret for a provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credentials: token is required")
	}
	_, err := s.q.Exec(ctx, `
INSERT INTO service_credentials (provider, token)
VALUES ($1, $2)
ON CONFLICT (provider) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW();
`, provider, token)
	return err
}
