package match

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/openfield/pickup/internal/dependencies/clock"
	"github.com/openfield/pickup/internal/dependencies/random"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/roster"
	"github.com/openfield/pickup/internal/storage"
)

// CreateParams are the fields a caller may set when creating a match
type CreateParams struct {
	Title       string
	Date        string
	Time        string
	Location    string
	LocationURL string
	MaxPlayers  int
	Notes       string
}

// Patch holds a partial match update; nil fields are left unchanged
type Patch struct {
	Title       *string
	Date        *string
	Time        *string
	Location    *string
	LocationURL *string
	MaxPlayers  *int
	Notes       *string
}

// Controller owns the server-side match lifecycle and roster mutations
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	// Serializes roster mutations; joins racing each other must not
	// both win the last confirmed spot.
	mu sync.Mutex
}

// NewController creates a match Controller
func NewController(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
	}
}

// Create makes a new match owned by the given user
func (c *Controller) Create(ctx context.Context, params CreateParams, createdBy string) (*model.Match, error) {
	now := c.clock.Now()
	m := &model.Match{
		ID:          c.random.ID("m_"),
		Title:       params.Title,
		Date:        params.Date,
		Time:        params.Time,
		Location:    params.Location,
		LocationURL: params.LocationURL,
		MaxPlayers:  roster.CoerceCapacity(params.MaxPlayers),
		Notes:       params.Notes,
		CreatedBy:   createdBy,
		Players:     []model.Player{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("Match created", "match_id", m.ID, "created_by", createdBy)
	return m, nil
}

// Get returns a match by id
func (c *Controller) Get(ctx context.Context, id string) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// List returns all matches ordered by date, time, then title
func (c *Controller) List(ctx context.Context) ([]*model.Match, error) {
	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date < matches[j].Date
		}
		if matches[i].Time != matches[j].Time {
			return matches[i].Time < matches[j].Time
		}
		return strings.ToLower(matches[i].Title) < strings.ToLower(matches[j].Title)
	})
	return matches, nil
}

// Update applies a partial update. Only the creator or an admin may
// edit a match. Lowering capacity never demotes confirmed players,
// but it does stop further promotion until spots free up.
func (c *Controller) Update(ctx context.Context, id string, patch Patch, actor *model.User) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(m, actor) {
		return nil, model.ErrPermissionDenied
	}

	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.Time != nil {
		m.Time = *patch.Time
	}
	if patch.Location != nil {
		m.Location = *patch.Location
	}
	if patch.LocationURL != nil {
		m.LocationURL = *patch.LocationURL
	}
	if patch.MaxPlayers != nil {
		m.MaxPlayers = roster.CoerceCapacity(*patch.MaxPlayers)
		// Raising capacity can free spots for the waitlist
		for roster.Promote(m) {
		}
	}
	if patch.Notes != nil {
		m.Notes = *patch.Notes
	}
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a match. Only the creator or an admin may delete.
func (c *Controller) Delete(ctx context.Context, id string, actor *model.User) error {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(m, actor) {
		return model.ErrPermissionDenied
	}

	if err := c.storage.DeleteMatch(ctx, id); err != nil {
		return err
	}

	c.logger.Info("Match deleted", "match_id", id, "actor", actor.ID)
	return nil
}

// Join adds the user to the roster, confirmed if a spot is free and
// waitlisted otherwise. Joining twice returns ErrAlreadyJoined.
func (c *Controller) Join(ctx context.Context, id string, user *model.User) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !roster.Add(m, user.Identity().AsPlayer()) {
		return nil, model.ErrAlreadyJoined
	}
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("Player joined", "match_id", id, "user_id", user.ID)
	return m, nil
}

// Leave removes the user from the roster and promotes the next
// waitlisted player. Leaving a match the user is not on returns
// ErrNotJoined.
func (c *Controller) Leave(ctx context.Context, id string, user *model.User) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !roster.Remove(m, user.Identity().AsPlayer()) {
		return nil, model.ErrNotJoined
	}
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("Player left", "match_id", id, "user_id", user.ID)
	return m, nil
}

// Kick is not implemented yet. Removing another player needs an audit
// trail before it can be allowed.
func (c *Controller) Kick(ctx context.Context, id, playerID string, actor *model.User) error {
	if _, err := c.storage.GetMatch(ctx, id); err != nil {
		return err
	}
	return model.ErrKickNotSupported
}

// canManage reports whether a user may edit or delete a match
func canManage(m *model.Match, actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || m.CreatedBy == actor.ID
}
