package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openfield/pickup/internal/model"
)

// TelegramLogin is the payload the Telegram login widget sends
type TelegramLogin struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// DisplayName builds a human name from the telegram profile fields
func (t TelegramLogin) DisplayName() string {
	name := strings.TrimSpace(t.FirstName + " " + t.LastName)
	if name == "" {
		name = t.Username
	}
	return name
}

// LoginWithTelegram verifies a Telegram login widget payload and
// issues tokens, creating the account on first login.
func (s *Service) LoginWithTelegram(ctx context.Context, login TelegramLogin) (*model.User, *TokenPair, error) {
	if s.cfg.TelegramBotToken == "" {
		return nil, nil, ErrTelegramAuth
	}
	if err := s.verifyTelegram(login); err != nil {
		return nil, nil, err
	}

	user, err := s.storage.GetUserByTelegramID(ctx, login.ID)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, err
		}
		now := s.clock.Now()
		user = &model.User{
			ID:          s.random.ID("t_"),
			DisplayName: login.DisplayName(),
			Role:        model.RoleMember,
			Source:      model.SourceTelegram,
			TelegramID:  login.ID,
			CreatedAt:   now,
		}
	}

	// Keep profile fields fresh on every login
	user.DisplayName = login.DisplayName()
	user.Username = login.Username
	user.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// verifyTelegram checks the widget's HMAC signature and freshness.
// The signing key is SHA256 of the bot token, and the signed message
// is the sorted key=value list of every field except the hash itself.
func (s *Service) verifyTelegram(login TelegramLogin) error {
	fields := map[string]string{
		"id":        fmt.Sprintf("%d", login.ID),
		"auth_date": fmt.Sprintf("%d", login.AuthDate),
	}
	if login.FirstName != "" {
		fields["first_name"] = login.FirstName
	}
	if login.LastName != "" {
		fields["last_name"] = login.LastName
	}
	if login.Username != "" {
		fields["username"] = login.Username
	}
	if login.PhotoURL != "" {
		fields["photo_url"] = login.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	checkString := strings.Join(pairs, "\n")

	secret := sha256.Sum256([]byte(s.cfg.TelegramBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(login.Hash)) != 1 {
		return ErrTelegramAuth
	}

	authTime := time.Unix(login.AuthDate, 0)
	if s.clock.Now().Sub(authTime) > s.cfg.TelegramAuthWindow {
		return ErrTelegramAuth
	}
	return nil
}
