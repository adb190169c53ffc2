package model

import "time"

// UserRole distinguishes regular members from administrators
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User is a server-side account. Registered users have a username and
// password hash; guest and telegram users do not.
type User struct {
	ID           string
	Username     string // login username, empty for guest/telegram accounts
	DisplayName  string
	PasswordHash string // bcrypt hash, empty for guest/telegram accounts
	Role         UserRole
	Source       IdentitySource
	TelegramID   int64 // set for telegram accounts only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the acting identity for this account
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Source:      u.Source,
	}
}
