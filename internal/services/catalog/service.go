package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage"
)

// Service is the in-memory match catalog. It holds the working set of
// matches keyed by store id (or local key for ephemeral matches) and
// can snapshot that set to storage so a restart comes back with the
// last known state.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu      sync.RWMutex
	matches map[string]*model.Match
}

// NewService creates a new catalog Service
func NewService(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
		matches: make(map[string]*model.Match),
	}
}

// Get returns the match with the given catalog key
func (s *Service) Get(key string) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[key]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return m, nil
}

// List returns all matches ordered by date, time, then title
func (s *Service) List() []*model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// Upsert inserts or replaces a match under its catalog key
func (s *Service) Upsert(m *model.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.Key()] = m
}

// Remove drops a match from the catalog. Removing an absent key is a
// no-op.
func (s *Service) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, key)
}

// Rekey moves a match from one catalog key to another, used when an
// ephemeral match is saved and the store assigns it a real id.
func (s *Service) Rekey(oldKey string, m *model.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, oldKey)
	s.matches[m.Key()] = m
}

// ReplaceAll swaps the whole catalog for a fresh set from the store,
// keeping any ephemeral matches that have not been saved yet.
func (s *Service) ReplaceAll(matches []*model.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*model.Match, len(matches))
	for key, m := range s.matches {
		if m.IsEphemeral() {
			next[key] = m
		}
	}
	for _, m := range matches {
		next[m.Key()] = m
	}
	s.matches = next
}

// SaveSnapshot persists the current catalog to storage. Ephemeral
// matches are skipped: they have no stable id to save under.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	s.mu.RLock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if m.IsEphemeral() {
			continue
		}
		matches = append(matches, m)
	}
	s.mu.RUnlock()

	for _, m := range matches {
		if err := s.storage.SaveMatch(ctx, m); err != nil {
			s.logger.Error("Failed to snapshot match", "match_id", m.ID, "error", err)
			return err
		}
	}
	return nil
}

// LoadSnapshot restores the catalog from the last persisted snapshot
func (s *Service) LoadSnapshot(ctx context.Context) error {
	matches, err := s.storage.ListMatches(ctx)
	if err != nil {
		return err
	}

	s.ReplaceAll(matches)
	s.logger.Info("Catalog snapshot loaded", "matches", len(matches))
	return nil
}
