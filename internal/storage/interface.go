package storage

import (
	"context"

	"github.com/openfield/pickup/internal/model"
)

// Storage defines the interface for data persistence.
//
// The server uses the user and match operations; a client running in
// local-only mode uses the match operations as its catalog snapshot and
// the local identity operations for its persisted sign-in state.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)
	DeleteMatch(ctx context.Context, id string) error

	// Local identity operations (client-side persisted sign-in state)
	SaveLocalIdentity(ctx context.Context, identity *model.Identity) error
	GetLocalIdentity(ctx context.Context) (*model.Identity, error)
	ClearLocalIdentity(ctx context.Context) error
}
