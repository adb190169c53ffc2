package response

import (
	"time"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/auth"
)

// Player represents a roster entry in API responses
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Source   string `json:"source"`
	Status   string `json:"status"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:       p.ID,
		Name:     p.Name,
		Username: p.Username,
		Source:   string(p.Source),
		Status:   string(p.Status),
	}
}

// Match represents a match in API responses
type Match struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location,omitempty"`
	LocationURL string    `json:"locationUrl,omitempty"`
	MaxPlayers  int       `json:"maxPlayers"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	Players     []Player  `json:"players"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		players[i] = PlayerFromModel(p)
	}
	return Match{
		ID:          m.ID,
		Title:       m.Title,
		Date:        m.Date,
		Time:        m.Time,
		Location:    m.Location,
		LocationURL: m.LocationURL,
		MaxPlayers:  m.MaxPlayers,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		Players:     players,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MatchList is the response for listing matches
type MatchList struct {
	Matches []Match `json:"matches"`
}

// MatchListFromModels converts a slice of matches
func MatchListFromModels(matches []*model.Match) MatchList {
	out := MatchList{Matches: make([]Match, len(matches))}
	for i, m := range matches {
		out.Matches[i] = MatchFromModel(m)
	}
	return out
}

// User represents an account in API responses
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Source      string `json:"source"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Source:      string(u.Source),
	}
}

// UserList is the response for listing users
type UserList struct {
	Users []User `json:"users"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFrom creates an AuthResponse from a user and token pair
func AuthResponseFrom(u *model.User, pair *auth.TokenPair) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
}
