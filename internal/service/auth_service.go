package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
	"github.com/vuxducgiang/restaurant-pos/internal/utils"
)

// Staff roles.  MANAGER can administer rooms, tables and accounts;
// STAFF covers waiters and cashiers.
const (
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// ErrInvalidCredentials is returned for a wrong email/password pair and
// for invalid, expired or revoked refresh tokens.  One sentinel for all
// cases so responses do not leak which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthStore is the slice of storage the auth service needs.
type AuthStore interface {
	store.UserWriter
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetRefreshToken(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
}

// TokenPair is what login, register and refresh hand back to the
// client: the signed access token and the raw refresh token.
type TokenPair struct {
	User         *model.User
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// AuthService manages staff accounts and token issuance.  Refresh
// tokens rotate on use and are stored hashed.
type AuthService struct {
	store          AuthStore
	jwtSecret      string
	accessTTLMin   int
	refreshTTLDays int
	bcryptCost     int
	now            func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(st AuthStore, jwtSecret string, accessTTLMin, refreshTTLDays, bcryptCost int) *AuthService {
	if st == nil {
		panic("nil store passed to NewAuthService")
	}
	return &AuthService{
		store:          st,
		jwtSecret:      jwtSecret,
		accessTTLMin:   accessTTLMin,
		refreshTTLDays: refreshTTLDays,
		bcryptCost:     bcryptCost,
		now:            time.Now,
	}
}

// Register creates a staff account and logs it in immediately.  Unknown
// roles default to STAFF.  A duplicate email surfaces as
// store.ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != RoleManager && role != RoleStaff {
		role = RoleStaff
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !utils.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

// Refresh validates a raw refresh token by hash, revokes it and issues
// a new pair.  Rotation means a leaked token works at most once.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	user, tokenHash, err := s.validateRefresh(ctx, rawRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.store.RevokeRefreshToken(ctx, tokenHash, s.now().UTC()); err != nil && !errors.Is(err, store.ErrTokenNotFound) {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes a single refresh token.  An already invalid token is
// reported as ErrInvalidCredentials.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	_, tokenHash, err := s.validateRefresh(ctx, rawRefresh)
	if err != nil {
		return err
	}
	if err := s.store.RevokeRefreshToken(ctx, tokenHash, s.now().UTC()); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

func (s *AuthService) validateRefresh(ctx context.Context, rawRefresh string) (*model.User, string, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil, "", ErrInvalidCredentials
	}
	tokenHash := utils.HashRefreshRaw(rawRefresh)
	tok, err := s.store.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	now := s.now().UTC()
	if tok.RevokedAt != nil || now.After(tok.ExpiresAt) {
		return nil, "", ErrInvalidCredentials
	}
	user, err := s.store.GetUserByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	return user, tokenHash, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := utils.NewAccessToken(s.jwtSecret, user.ID, user.Role, s.accessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.refreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	rec := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: utils.HashRefreshRaw(refresh.Raw),
		ExpiresAt: refresh.Exp,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertRefreshToken(ctx, rec); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &TokenPair{
		User:         user,
		AccessToken:  access.Token,
		AccessExp:    access.Exp,
		RefreshToken: refresh.Raw,
		RefreshExp:   refresh.Exp,
	}, nil
}
