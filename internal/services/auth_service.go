package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbouchet/plume/internal/auth"
	"github.com/tbouchet/plume/internal/config"
	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

// TokenPair is an access/refresh token couple issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthService struct {
	store      core.Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(store core.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store:      store,
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Signup registers a new account. The password is stored only as its
// bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	if email == "" || username == "" {
		return nil, fmt.Errorf("%w: email and username are required", core.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", core.ErrValidation)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, core.ErrDuplicateEmail
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, core.ErrDuplicateUsername
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token pair. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, core.ErrInvalidCredentials
	}

	access, err := auth.IssueToken(user.ID, auth.KindAccess, s.secret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := auth.IssueToken(user.ID, auth.KindRefresh, s.secret, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := auth.ParseToken(refreshToken, auth.KindRefresh, s.secret)
	if err != nil {
		return nil, core.ErrInvalidToken
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, core.ErrInvalidToken
	}

	access, err := auth.IssueToken(userID, auth.KindAccess, s.secret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}
