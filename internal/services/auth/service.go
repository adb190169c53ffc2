package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfield/pickup/internal/dependencies/clock"
	"github.com/openfield/pickup/internal/dependencies/random"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
	ErrTelegramAuth       = errors.New("telegram login verification failed")
)

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Claims are the JWT claims carried by both token types
type Claims struct {
	jwt.RegisteredClaims
	UserID string         `json:"uid"`
	Role   model.UserRole `json:"role"`
	Kind   string         `json:"kind"` // "access" or "refresh"
}

// Config holds configuration for the auth service
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// TelegramBotToken signs telegram login widget payloads.
	// Telegram login is disabled when empty.
	TelegramBotToken string
	// TelegramAuthWindow is how old a telegram login payload may be
	TelegramAuthWindow time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         7 * 24 * time.Hour,
		TelegramAuthWindow: 24 * time.Hour,
	}
}

// Service handles authentication and token issuance
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
}

// New creates a new auth Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config) *Service {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultConfig().AccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultConfig().RefreshTTL
	}
	if cfg.TelegramAuthWindow == 0 {
		cfg.TelegramAuthWindow = DefaultConfig().TelegramAuthWindow
	}
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		cfg:     cfg,
	}
}

// Register creates a registered account and issues tokens
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*model.User, *TokenPair, error) {
	_, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           s.random.ID("u_"),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         model.RoleMember,
		Source:       model.SourceUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login authenticates a registered account and issues tokens
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// GuestLogin creates an anonymous account and issues tokens
func (s *Service) GuestLogin(ctx context.Context, displayName string) (*model.User, *TokenPair, error) {
	now := s.clock.Now()
	user := &model.User{
		ID:          s.random.ID("g_"),
		DisplayName: displayName,
		Role:        model.RoleMember,
		Source:      model.SourceGuest,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error) {
	claims, err := s.parseToken(refreshToken, s.cfg.RefreshSecret, "refresh")
	if err != nil {
		return nil, nil, err
	}

	user, err := s.storage.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Validate checks an access token and returns its claims
func (s *Service) Validate(accessToken string) (*Claims, error) {
	return s.parseToken(accessToken, s.cfg.AccessSecret, "access")
}

// Me loads the account behind an access token
func (s *Service) Me(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.Validate(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// issueTokens signs a new access/refresh pair for a user
func (s *Service) issueTokens(user *model.User) (*TokenPair, error) {
	now := s.clock.Now()
	accessExpiry := now.Add(s.cfg.AccessTTL)

	access, err := s.signToken(user, "access", s.cfg.AccessSecret, now, accessExpiry)
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(user, "refresh", s.cfg.RefreshSecret, now, now.Add(s.cfg.RefreshTTL))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *Service) signToken(user *model.User, kind, secret string, now, expiry time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *Service) parseToken(tokenString, secret, kind string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
