package cli

import (
	"context"

	"github.com/openfield/pickup/internal/dependencies/random"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/catalog"
	"github.com/openfield/pickup/internal/services/identity"
	"github.com/openfield/pickup/internal/services/membership"
	"github.com/openfield/pickup/internal/storage/memory"
)

// app wires the client-side services for one CLI invocation: the
// local catalog, the reconciler mutating through the API client, and
// the identity resolver seeded from the authenticated account.
type app struct {
	catalog    *catalog.Service
	reconciler *membership.Reconciler
	resolver   *identity.Resolver
}

// newApp builds the client-side stack and pulls the current match
// list from the server.
func newApp(ctx context.Context) (*app, error) {
	logger := cliLogger()
	store := memory.New()
	rnd := random.New()

	cat := catalog.NewService(store, logger)
	norm := catalog.NewNormalizer(rnd)

	a := &app{
		catalog:    cat,
		reconciler: membership.NewReconciler(cat, norm, api, logger),
		resolver:   identity.NewResolver(store, rnd, logger),
	}

	if err := a.reconciler.Refresh(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// currentIdentity resolves who is acting: the authenticated account
// behind the saved tokens.
func (a *app) currentIdentity(ctx context.Context) (model.Identity, error) {
	me, err := api.Me(ctx)
	if err != nil {
		return model.Identity{}, err
	}

	id := me.Identity()
	if err := a.resolver.Adopt(ctx, id); err != nil {
		return model.Identity{}, err
	}
	return a.resolver.Current()
}
