package memory

import (
	"context"
	"sync"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[string]*model.User
	usernameIndex map[string]string
	telegramIndex map[int64]string
	matches       map[string]*model.Match
	localIdentity *model.Identity
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[string]*model.User),
		usernameIndex: make(map[string]string),
		telegramIndex: make(map[int64]string),
		matches:       make(map[string]*model.Match),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	if user.Username != "" {
		s.usernameIndex[user.Username] = user.ID
	}
	if user.TelegramID != 0 {
		s.telegramIndex[user.TelegramID] = user.ID
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.telegramIndex[telegramID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		if user.Username != "" {
			delete(s.usernameIndex, user.Username)
		}
		if user.TelegramID != 0 {
			delete(s.telegramIndex, user.TelegramID)
		}
	}
	delete(s.users, id)
	return nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

// Local identity operations

func (s *Storage) SaveLocalIdentity(ctx context.Context, identity *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localIdentity = identity
	return nil
}

func (s *Storage) GetLocalIdentity(ctx context.Context) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.localIdentity == nil {
		return nil, model.ErrNoIdentity
	}
	return s.localIdentity, nil
}

func (s *Storage) ClearLocalIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localIdentity = nil
	return nil
}
