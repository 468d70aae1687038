// Package draft persists the single in-progress wizard draft per user.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/caspiansol/adspark/internal/domain"
)

// RedisStore keeps drafts in Redis under one key per user, with a TTL so
// abandoned drafts expire on their own. Last write wins.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a draft store on the given client. A zero TTL keeps
// drafts forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(userID string) string {
	return fmt.Sprintf("wizard:draft:%s", userID)
}

// Save overwrites the user's draft.
func (s *RedisStore) Save(ctx context.Context, userID string, d *domain.WizardDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft: save: %w", err)
	}
	return nil
}

// Load returns the user's draft, or domain.ErrNotFound when none exists.
func (s *RedisStore) Load(ctx context.Context, userID string) (*domain.WizardDraft, error) {
	raw, err := s.client.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("draft: load: %w", err)
	}
	var d domain.WizardDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("draft: decode: %w", err)
	}
	return &d, nil
}

// Clear removes the user's draft. Clearing a missing draft is not an error.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("draft: clear: %w", err)
	}
	return nil
}

var _ domain.DraftStore = (*RedisStore)(nil)
