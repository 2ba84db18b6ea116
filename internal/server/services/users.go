// Package services contains the server-side business logic: user
// authentication, upload ingestion, and report generation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
)

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "user_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// Register creates a user with a bcrypt-hashed password. Used by the seed
// binary at provisioning time. The username check and the insert run in one
// transaction so concurrent seeds cannot race past the uniqueness check.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetUserByLogin(ctx, username); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking username: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and issues a session token. A missing user
// and a wrong password both come back as ErrorUnauthorized; the distinction
// exists only in the log.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login rejected: unknown username", "username", username)
			return "", nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return "", nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info(ctx, "login rejected: password mismatch", "user_id", user.ID)
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// VerifyToken returns the subject user id of a valid session token.
func (s *UserService) VerifyToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// GetByID loads a user record, e.g. to answer the session introspection
// endpoint. Returns common.ErrorNotFound when the row is gone.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByID(ctx, id)
}
