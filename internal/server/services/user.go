// Package services contains the server-side business logic. This file
// implements UserService: registration, login, profile updates, deactivation
// and bearer-token resolution.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/auth"
	"github.com/inkwell-app/inkwell/internal/server/config"
	"github.com/inkwell-app/inkwell/internal/server/models"
	"github.com/inkwell-app/inkwell/internal/server/repositories/repomanager"
)

// AuthResult bundles a freshly issued access token with the safe view of the
// authenticated user.
type AuthResult struct {
	Token string          `json:"token"`
	User  models.SafeUser `json:"user"`
}

// ProfilePatch carries optional profile updates. Nil fields are left as-is.
type ProfilePatch struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// UserService handles identity operations:
//   - Register: create a user and issue a token
//   - Login: verify credentials (by username or email) and issue a token
//   - ResolveToken: turn a bearer token into the current user record
type UserService struct {
	rm             repomanager.RepositoryManager
	jwtSecret      []byte
	accessTokenTTL time.Duration
}

// NewUserService constructs a UserService from repositories and server config.
func NewUserService(rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		rm:             rm,
		jwtSecret:      []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Register creates a user with a hashed secret and returns a token for it.
// The hash step lives here, on the only write path, so no caller can insert
// a plaintext secret.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (*AuthResult, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation("unknown role")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.rm.Repos().Users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		return nil, err
	}

	return s.authResult(user)
}

// Login verifies the identifier/password pair and issues a token. All
// failure modes collapse into one Unauthenticated answer so the response
// does not reveal whether the identifier exists.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, apperr.Validation("identifier and password are required")
	}

	user, err := s.rm.Repos().Users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	return s.authResult(user)
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Safe()}, nil
}

// ResolveToken is the single token-to-identity resolution path used by both
// required and optional auth. Every failure is Unauthenticated: bad or
// expired tokens, vanished users, deactivated users.
func (s *UserService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("token expired")
		}
		return nil, apperr.Unauthenticated("invalid token")
	}

	user, err := s.rm.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("user no longer exists")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperr.Unauthenticated("user is deactivated")
	}

	return user, nil
}

// GetByID returns the stored user record.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.rm.Repos().Users.GetByID(ctx, id)
}

// UpdateProfile applies the present patch fields to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.SafeUser, error) {
	repo := s.rm.Repos().Users

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		if *patch.Username == "" {
			return nil, apperr.Validation("username cannot be empty")
		}
		user.Username = *patch.Username
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}

	updated, err := repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	safe := updated.Safe()
	return &safe, nil
}

// Deactivate flips the user's active flag off. Records are never deleted.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	return s.rm.Repos().Users.SetActive(ctx, userID, false)
}
