package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/auth"
	"github.com/dmitrijs2005/kasir/internal/server/config"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/repomanager"
)

// Token is a signed bearer token and the moment it stops being accepted.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserService registers users, checks credentials and mints and verifies
// bearer tokens. Tokens are stateless: Authenticate never reads the store.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	recorder              Recorder
	now                   func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, r Recorder) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		recorder:              orNop(r),
		now:                   utcNow,
	}
}

// Register creates a user. The username is trimmed and must not be empty.
// A taken username yields common.ErrDuplicateUser whatever the password;
// otherwise the password, taken as is, must have at least
// common.MinPasswordLength bytes.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.ErrInvalidInput
	}

	exists, err := s.repomanager.Users(s.db).Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateUser
	}

	if len(password) < common.MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	// The existence check is repeated inside the transaction; Create still
	// maps a concurrent insert to common.ErrDuplicateUser.
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{UserName: username, PasswordHash: hash, CreatedAt: s.now()}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.Exists(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateUser
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) || errors.Is(err, common.ErrStorage) {
			return nil, err
		}
		return nil, common.Storage("register user", err)
	}

	return user, nil
}

// Login verifies the password and returns a new token. Unknown users and
// wrong passwords are reported as common.ErrUnknownUser and
// common.ErrBadPassword.
func (s *UserService) Login(ctx context.Context, username, password string) (*Token, error) {
	ok := false
	defer func() { s.recorder.LoginAttempt(ok) }()

	user, err := s.repomanager.Users(s.db).Get(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, err
	}

	match, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login %s: %w", user.UserName, err)
	}
	if !match {
		return nil, common.ErrBadPassword
	}

	signed, expiresAt, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.now(), s.tokenValidityDuration)
	if err != nil {
		return nil, err
	}

	ok = true
	return &Token{Token: signed, ExpiresAt: expiresAt}, nil
}

// Authenticate returns the username carried by a valid token.
func (s *UserService) Authenticate(_ context.Context, token string) (string, error) {
	return auth.GetUsernameFromTokenAt(token, s.jwtSecret, s.now())
}
