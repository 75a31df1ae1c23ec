package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/observability"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/views"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CredentialService owns users, their password hashes and session issuance.
type CredentialService interface {
	// Signup validates the request, hashes the password and registers the user.
	Signup(ctx context.Context, traceId string, req views.SignupRequest) (int64, error)
	// Register creates a user and its seeded account in one transaction.
	Register(ctx context.Context, traceId string, username string, passwordHash string) (int64, error)
	// Verify reports whether the credentials match. A missing user and a wrong password are indistinguishable.
	Verify(ctx context.Context, traceId string, username string, password string) (models.User, bool, error)
	Login(ctx context.Context, traceId string, req views.LoginRequest) (auth.Session, models.User, error)
	Logout(ctx context.Context, traceId string, token string) error
}

type CredentialServiceImpl struct {
	logger      *zap.Logger
	db          database.Handle
	userRepo    repositories.UserRepository
	accountRepo repositories.AccountRepository
	authority   auth.SessionAuthority
	seedBalance func() int64
}

func NewCredentialService(logger *zap.Logger, cfg *configs.Config, db database.Handle,
	userRepo repositories.UserRepository, accountRepo repositories.AccountRepository,
	authority auth.SessionAuthority) *CredentialServiceImpl {
	maxSeed := cfg.MaxSeedBalance
	if maxSeed <= 0 {
		maxSeed = pkg.DefaultMaxSeedBalance
	}
	return &CredentialServiceImpl{
		logger:      logger,
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		authority:   authority,
		seedBalance: func() int64 { return rand.Int63n(maxSeed) },
	}
}

func (s *CredentialServiceImpl) Signup(ctx context.Context, traceId string, req views.SignupRequest) (int64, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		observability.SignupsTotal.WithLabelValues("invalid").Inc()
		return 0, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password_hash_failed", zap.String(pkg.TraceId, traceId), zap.Error(err))
		return 0, pkg.NewAppError(pkg.ErrServerCode, "", err)
	}
	return s.Register(ctx, traceId, req.Username, hash)
}

func (s *CredentialServiceImpl) Register(ctx context.Context, traceId string, username string, passwordHash string) (int64, error) {
	user := models.User{Username: username, PasswordHash: passwordHash}
	balance := s.seedBalance()

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.Create(ctx, tx, &user); err != nil {
			return err
		}
		account := models.Account{UserID: user.ID, Balance: balance}
		return s.accountRepo.Create(ctx, tx, &account)
	})
	if err != nil {
		if pkg.IsUniqueViolation(err) {
			observability.SignupsTotal.WithLabelValues("duplicate").Inc()
			return 0, pkg.NewAppError(pkg.ErrDuplicateUsernameCode, "", pkg.ErrDuplicateUsername)
		}
		observability.SignupsTotal.WithLabelValues("failed").Inc()
		return 0, pkg.HandleSQLError(traceId, s.logger, err)
	}

	observability.SignupsTotal.WithLabelValues("created").Inc()
	s.logger.Info("user_registered",
		zap.String(pkg.TraceId, traceId),
		zap.Int64(pkg.UserId, user.ID),
		zap.Int64("seed_balance", balance),
	)
	return user.ID, nil
}

// dummyHash is verified against when the user does not exist so both paths cost one argon2 derivation.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("dummy-password-1!")
	return h
})

func (s *CredentialServiceImpl) Verify(ctx context.Context, traceId string, username string, password string) (models.User, bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, s.db.Primary(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		_, _ = auth.VerifyPassword(password, dummyHash())
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, pkg.HandleSQLError(traceId, s.logger, err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored_password_hash_unreadable", zap.String(pkg.TraceId, traceId), zap.Int64(pkg.UserId, user.ID), zap.Error(err))
		return models.User{}, false, nil
	}
	if !ok {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (s *CredentialServiceImpl) Login(ctx context.Context, traceId string, req views.LoginRequest) (auth.Session, models.User, error) {
	user, ok, err := s.Verify(ctx, traceId, req.Username, req.Password)
	if err != nil {
		return auth.Session{}, models.User{}, err
	}
	if !ok {
		return auth.Session{}, models.User{}, pkg.NewAppError(pkg.ErrInvalidCredentialsCode, "", pkg.ErrNotAuthenticated)
	}

	session, err := s.authority.Issue(ctx, auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		s.logger.Error("session_issue_failed", zap.String(pkg.TraceId, traceId), zap.Int64(pkg.UserId, user.ID), zap.Error(err))
		return auth.Session{}, models.User{}, pkg.NewAppError(pkg.ErrServerCode, "", err)
	}
	s.logger.Info("user_logged_in", zap.String(pkg.TraceId, traceId), zap.Int64(pkg.UserId, user.ID))
	return session, user, nil
}

func (s *CredentialServiceImpl) Logout(ctx context.Context, traceId string, token string) error {
	if err := s.authority.Revoke(ctx, token); err != nil {
		s.logger.Error("session_revoke_failed", zap.String(pkg.TraceId, traceId), zap.Error(err))
		return pkg.NewAppError(pkg.ErrServerCode, "", err)
	}
	return nil
}
