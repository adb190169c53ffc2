package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/openfield/pickup/internal/dependencies/random"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage"
)

// Resolver decides who the current player is. An authenticated account
// adopted after sign-in wins; otherwise a persisted guest identity is
// reused across sessions so a guest keeps their roster spots.
type Resolver struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu      sync.RWMutex
	current *model.Identity
}

// NewResolver creates a new Resolver
func NewResolver(store storage.Storage, rnd random.Random, logger *slog.Logger) *Resolver {
	return &Resolver{
		storage: store,
		random:  rnd,
		logger:  logger,
	}
}

// Load restores the persisted identity, if any. Call once at startup;
// without a persisted identity the resolver stays anonymous until
// SignInGuest or Adopt.
func (r *Resolver) Load(ctx context.Context) error {
	persisted, err := r.storage.GetLocalIdentity(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoIdentity) {
			return nil
		}
		return err
	}

	r.mu.Lock()
	r.current = persisted
	r.mu.Unlock()

	r.logger.Info("Identity restored", "identity_id", persisted.ID, "source", persisted.Source)
	return nil
}

// Current returns the active identity, or ErrNoIdentity when nobody
// has signed in yet.
func (r *Resolver) Current() (model.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return model.Identity{}, model.ErrNoIdentity
	}
	return *r.current, nil
}

// SignInGuest creates and persists a guest identity under the given
// display name. If a guest identity is already active, only the name
// is updated so the guest's id (and roster matches) survive.
func (r *Resolver) SignInGuest(ctx context.Context, displayName string) (model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Source == model.SourceGuest {
		r.current.DisplayName = displayName
	} else {
		r.current = &model.Identity{
			ID:          r.random.ID("g_"),
			DisplayName: displayName,
			Source:      model.SourceGuest,
		}
	}

	if err := r.storage.SaveLocalIdentity(ctx, r.current); err != nil {
		return model.Identity{}, err
	}
	return *r.current, nil
}

// Adopt replaces the active identity with an authenticated one and
// persists it.
func (r *Resolver) Adopt(ctx context.Context, id model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = &id
	if err := r.storage.SaveLocalIdentity(ctx, r.current); err != nil {
		return err
	}

	r.logger.Info("Identity adopted", "identity_id", id.ID, "source", id.Source)
	return nil
}

// SignOut clears the active identity and its persisted copy
func (r *Resolver) SignOut(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
	return r.storage.ClearLocalIdentity(ctx)
}
