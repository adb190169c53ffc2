package membership

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/catalog"
	"github.com/openfield/pickup/internal/services/roster"
)

// MatchStore is the remote store the reconciler mutates against. It
// returns raw documents rather than parsed matches because the store
// is not trusted to send the canonical shape; everything goes through
// the normalizer.
type MatchStore interface {
	ListMatches(ctx context.Context) ([]json.RawMessage, error)
	GetMatch(ctx context.Context, id string) (json.RawMessage, error)
	CreateMatch(ctx context.Context, match *model.Match) (json.RawMessage, error)
	DeleteMatch(ctx context.Context, id string) error
	JoinMatch(ctx context.Context, id string, player model.Player) (json.RawMessage, error)
	LeaveMatch(ctx context.Context, id string, player model.Player) (json.RawMessage, error)
	KickPlayer(ctx context.Context, matchID, playerID string) (json.RawMessage, error)
}

// statusCoder is implemented by store errors that carry an HTTP status
type statusCoder interface {
	StatusCode() int
}

// Reconciler applies membership changes optimistically: the local
// catalog is mutated first so the caller sees the change immediately,
// then the store is told. If the store disagrees the local change is
// rolled back to the exact pre-mutation roster, or resynced from the
// store when the failure just means someone else got there first.
type Reconciler struct {
	catalog    *catalog.Service
	normalizer *catalog.Normalizer
	store      MatchStore
	logger     *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewReconciler creates a new Reconciler
func NewReconciler(cat *catalog.Service, norm *catalog.Normalizer, store MatchStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		catalog:    cat,
		normalizer: norm,
		store:      store,
		logger:     logger,
		inFlight:   make(map[string]struct{}),
	}
}

// RequestJoin adds the identity to the match roster and reconciles the
// change with the store. Joining a match the identity is already on is
// a no-op. Returns model.ErrUnauthenticated when the store rejects the
// caller's credentials; the optimistic state is kept in that case so
// the caller can retry after re-authenticating.
func (r *Reconciler) RequestJoin(ctx context.Context, key string, id model.Identity) error {
	match, err := r.catalog.Get(key)
	if err != nil {
		return err
	}
	if match.IsEphemeral() {
		return model.ErrEphemeralMatch
	}

	if !r.begin(key) {
		return model.ErrMutationPending
	}
	defer r.end(key)

	snapshot := match.ClonePlayers()
	if !roster.Add(match, id.AsPlayer()) {
		// Already on the roster, nothing to reconcile
		return nil
	}

	raw, err := r.store.JoinMatch(ctx, match.ID, id.AsPlayer())
	if err != nil {
		return r.settle(ctx, match, snapshot, err, "join")
	}

	r.adopt(match, raw)
	return nil
}

// RequestLeave removes the identity from the match roster and
// reconciles with the store. Leaving a match the identity is not on is
// a no-op.
func (r *Reconciler) RequestLeave(ctx context.Context, key string, id model.Identity) error {
	match, err := r.catalog.Get(key)
	if err != nil {
		return err
	}
	if match.IsEphemeral() {
		return model.ErrEphemeralMatch
	}

	if !r.begin(key) {
		return model.ErrMutationPending
	}
	defer r.end(key)

	snapshot := match.ClonePlayers()
	if !roster.Remove(match, id.AsPlayer()) {
		return nil
	}

	raw, err := r.store.LeaveMatch(ctx, match.ID, id.AsPlayer())
	if err != nil {
		return r.settle(ctx, match, snapshot, err, "leave")
	}

	r.adopt(match, raw)
	return nil
}

// RequestKick removes another player from the roster on behalf of the
// actor. Guests cannot kick. The store does not implement kick yet, so
// the optimistic removal is rolled back and ErrKickNotSupported
// surfaced when the store says so.
func (r *Reconciler) RequestKick(ctx context.Context, key, playerID string, actor model.Identity) error {
	if !actor.CanRemoveOthers() {
		return model.ErrPermissionDenied
	}

	match, err := r.catalog.Get(key)
	if err != nil {
		return err
	}
	if match.IsEphemeral() {
		return model.ErrEphemeralMatch
	}

	if !r.begin(key) {
		return model.ErrMutationPending
	}
	defer r.end(key)

	snapshot := match.ClonePlayers()
	if !roster.Remove(match, model.Player{ID: playerID}) {
		return model.ErrPlayerNotFound
	}

	raw, err := r.store.KickPlayer(ctx, match.ID, playerID)
	if err != nil {
		return r.settle(ctx, match, snapshot, err, "kick")
	}

	r.adopt(match, raw)
	return nil
}

// RequestDelete removes a match entirely. Ephemeral matches only exist
// locally, so they are dropped from the catalog without a store call.
func (r *Reconciler) RequestDelete(ctx context.Context, key string) error {
	match, err := r.catalog.Get(key)
	if err != nil {
		return err
	}
	if match.IsEphemeral() {
		r.catalog.Remove(key)
		return nil
	}

	if !r.begin(key) {
		return model.ErrMutationPending
	}
	defer r.end(key)

	if err := r.store.DeleteMatch(ctx, match.ID); err != nil {
		if isUnauthenticated(err) {
			return model.ErrUnauthenticated
		}
		if isNotFound(err) {
			// Already gone remotely, converge
			r.catalog.Remove(key)
			return nil
		}
		return err
	}

	r.catalog.Remove(key)
	return nil
}

// CreateMatch saves a local draft to the store. The store's response
// is normalized and replaces the draft under its newly assigned id.
func (r *Reconciler) CreateMatch(ctx context.Context, key string) (*model.Match, error) {
	match, err := r.catalog.Get(key)
	if err != nil {
		return nil, err
	}
	if !match.IsEphemeral() {
		return match, nil
	}

	if !r.begin(key) {
		return nil, model.ErrMutationPending
	}
	defer r.end(key)

	raw, err := r.store.CreateMatch(ctx, match)
	if err != nil {
		if isUnauthenticated(err) {
			return nil, model.ErrUnauthenticated
		}
		return nil, err
	}

	saved := r.normalizer.Match(raw)
	r.catalog.Rekey(key, saved)
	return saved, nil
}

// Refresh replaces the catalog with the store's current match list
func (r *Reconciler) Refresh(ctx context.Context) error {
	rawList, err := r.store.ListMatches(ctx)
	if err != nil {
		if isUnauthenticated(err) {
			return model.ErrUnauthenticated
		}
		return err
	}

	matches := make([]*model.Match, 0, len(rawList))
	for _, raw := range rawList {
		matches = append(matches, r.normalizer.Match(raw))
	}
	r.catalog.ReplaceAll(matches)
	return nil
}

// settle resolves a failed store mutation. Conflicts mean someone else
// changed the roster first: the optimistic change is discarded and the
// store's view adopted, with no error. Auth failures keep the
// optimistic state and hand control back for re-authentication.
// Everything else rolls back to the pre-mutation snapshot.
func (r *Reconciler) settle(ctx context.Context, match *model.Match, snapshot []model.Player, err error, op string) error {
	switch {
	case isConflict(err):
		r.logger.Info("Membership conflict, resyncing", "match_id", match.ID, "op", op)
		if resyncErr := r.resync(ctx, match); resyncErr != nil {
			match.Players = snapshot
			return resyncErr
		}
		return nil
	case isUnauthenticated(err):
		return model.ErrUnauthenticated
	case isNotImplemented(err):
		match.Players = snapshot
		return model.ErrKickNotSupported
	case isNotFound(err):
		match.Players = snapshot
		r.catalog.Remove(match.Key())
		return model.ErrMatchNotFound
	default:
		r.logger.Error("Membership mutation failed, rolling back", "match_id", match.ID, "op", op, "error", err)
		match.Players = snapshot
		return err
	}
}

// resync replaces a single match with the store's current view
func (r *Reconciler) resync(ctx context.Context, match *model.Match) error {
	raw, err := r.store.GetMatch(ctx, match.ID)
	if err != nil {
		return err
	}
	r.adopt(match, raw)
	return nil
}

// adopt overwrites the local match with the store's response in place,
// so holders of the pointer see the settled state.
func (r *Reconciler) adopt(match *model.Match, raw json.RawMessage) {
	settled := r.normalizer.Match(raw)
	if settled.ID == "" {
		// Store sent something unusable, keep the optimistic view
		return
	}
	*match = *settled
	r.catalog.Upsert(match)
}

func (r *Reconciler) begin(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, pending := r.inFlight[key]; pending {
		return false
	}
	r.inFlight[key] = struct{}{}
	return true
}

func (r *Reconciler) end(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, key)
}

func statusCode(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func isConflict(err error) bool        { return statusCode(err) == 409 }
func isUnauthenticated(err error) bool { return statusCode(err) == 401 }
func isNotFound(err error) bool        { return statusCode(err) == 404 }
func isNotImplemented(err error) bool  { return statusCode(err) == 501 }
