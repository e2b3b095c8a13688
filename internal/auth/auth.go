// Package auth implements registration, login, and bearer-token session
// authentication backed by the SQLite repository.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service struct {
	repo       *storage.SQLiteRepository
	bcryptCost int
	sessionTTL time.Duration
}

func NewService(repo *storage.SQLiteRepository, bcryptCost int, sessionTTL time.Duration) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if sessionTTL == 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, sessionTTL: sessionTTL}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (storage.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return storage.User{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return storage.User{}, ErrWeakPassword
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return storage.User{}, ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return storage.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return storage.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := storage.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return storage.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and issues a session token. The same
// ErrInvalidCredentials comes back for an unknown email and a wrong password
// so the response does not reveal which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (string, storage.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return "", storage.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", storage.User{}, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", storage.User{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", storage.User{}, err
	}
	session := storage.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL).UTC(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return "", storage.User{}, fmt.Errorf("create session: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidCredentials
	}
	session, err := s.repo.GetSession(ctx, token)
	if errors.Is(err, core.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		return "", ErrInvalidCredentials
	}
	return session.UserID, nil
}

// Logout discards the session; an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.repo.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
