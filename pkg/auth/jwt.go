package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the authenticated caller handed to every core operation.
type Identity struct {
	UserID   int64
	Username string
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Claims carried by a session token. Subject holds the user id, ID the session id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// SessionAuthority issues and validates session tokens.
type SessionAuthority interface {
	Issue(ctx context.Context, identity Identity) (Session, error)
	// Validate returns an AppError wrapping pkg.ErrNotAuthenticated for any bad token.
	Validate(ctx context.Context, token string) (Identity, error)
	// Revoke ends the session behind token. Unknown or expired tokens are ignored.
	Revoke(ctx context.Context, token string) error
}

type SessionAuthorityImpl struct {
	logger *zap.Logger
	secret []byte
	ttl    time.Duration
	store  SessionStore // nil means stateless tokens
	now    func() time.Time
}

// NewSessionAuthority builds an HS256 token authority. store may be nil.
func NewSessionAuthority(logger *zap.Logger, secret string, ttl time.Duration, store SessionStore) *SessionAuthorityImpl {
	return &SessionAuthorityImpl{
		logger: logger,
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

func (a *SessionAuthorityImpl) Issue(ctx context.Context, identity Identity) (Session, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)
	sessionID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: identity.Username,
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return Session{}, err
	}

	if a.store != nil {
		if err = a.store.Save(ctx, sessionID, identity.UserID, a.ttl); err != nil {
			return Session{}, fmt.Errorf("save session: %w", err)
		}
	}
	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

func (a *SessionAuthorityImpl) Validate(ctx context.Context, token string) (Identity, error) {
	claims, err := a.parse(token)
	if err != nil {
		return Identity{}, pkg.NewAppError(pkg.ErrNotAuthenticatedCode, "", fmt.Errorf("%w: %v", pkg.ErrNotAuthenticated, err))
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, pkg.NewAppError(pkg.ErrNotAuthenticatedCode, "", pkg.ErrNotAuthenticated)
	}

	if a.store != nil {
		ok, err := a.store.Exists(ctx, claims.ID)
		if err != nil {
			a.logger.Error("session_lookup_failed", zap.Error(err))
			return Identity{}, err
		}
		if !ok {
			return Identity{}, pkg.NewAppError(pkg.ErrNotAuthenticatedCode, "", fmt.Errorf("%w: session revoked", pkg.ErrNotAuthenticated))
		}
	}
	return Identity{UserID: userID, Username: claims.Username}, nil
}

func (a *SessionAuthorityImpl) Revoke(ctx context.Context, token string) error {
	if a.store == nil {
		return nil
	}
	claims, err := a.parse(token)
	if err != nil {
		return nil
	}
	return a.store.Delete(ctx, claims.ID)
}

func (a *SessionAuthorityImpl) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
