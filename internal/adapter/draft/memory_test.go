package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/caspiansol/adspark/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load before save = %v, want ErrNotFound", err)
	}

	draft := &domain.WizardDraft{State: domain.WizardState{Brand: "GlowBrew"}, Step: 3}
	if err := store.Save(ctx, "user-1", draft); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Step != 3 || loaded.State.Brand != "GlowBrew" {
		t.Fatalf("loaded = %+v", loaded)
	}

	// Last write wins.
	if err := store.Save(ctx, "user-1", &domain.WizardDraft{Step: 5}); err != nil {
		t.Fatal(err)
	}
	loaded, _ = store.Load(ctx, "user-1")
	if loaded.Step != 5 {
		t.Fatalf("step = %d, want 5", loaded.Step)
	}

	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Load(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load after clear = %v, want ErrNotFound", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("second Clear = %v", err)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, "user-1", &domain.WizardDraft{Step: 2})
	if _, err := store.Load(ctx, "user-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-user load = %v, want ErrNotFound", err)
	}
}
