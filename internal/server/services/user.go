// Package services contains server-side business logic. This file implements
// UserService, which handles the one-time admin bootstrap, login and bearer
// token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/server/auth"
	"github.com/dmitrijs2005/lightbox/internal/server/config"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: claim the single admin slot
// - Login: verify credentials and mint a token
// - Authenticate: resolve a bearer token to the admin username
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates the admin account. Once any account exists registration is
// closed; the insert itself decides when two first registrations race.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	n, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if n > 0 {
		return nil, common.ErrRegistrationClosed
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrRegistrationClosed) || errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// dummyHash keeps the cost of a login for an unknown user equal to a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("lightbox-dummy-password")
	return h
})

// Login verifies the credentials and returns a signed token with the user.
// Unknown users and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPasswordHash(password, dummyHash())
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// Authenticate returns the username a token was issued to.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetSubjectFromToken(token, s.jwtSecret)
}
