package model

import "errors"

// Common errors used across the application
var (
	// Match errors
	ErrMatchNotFound  = errors.New("match not found")
	ErrEphemeralMatch = errors.New("match has not been saved yet")
	ErrAlreadyJoined  = errors.New("already joined this match")
	ErrNotJoined      = errors.New("not joined to this match")
	ErrPlayerNotFound = errors.New("player not found in roster")

	// Membership errors
	ErrMutationPending  = errors.New("a membership change is already in progress for this match")
	ErrPermissionDenied = errors.New("not allowed to perform this action")
	ErrKickNotSupported = errors.New("removing other players is not supported by the match store")

	// Identity errors
	ErrNoIdentity      = errors.New("no local identity")
	ErrUnauthenticated = errors.New("sign-in required")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
