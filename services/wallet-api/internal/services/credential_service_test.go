package services

import (
	"context"
	"testing"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCredentialFixture() (*CredentialServiceImpl, *memStore, auth.SessionAuthority) {
	store := newMemStore()
	authority := auth.NewSessionAuthority(zap.NewNop(), "unit-test-secret-0123", time.Hour, nil)
	svc := NewCredentialService(zap.NewNop(), &configs.Config{MaxSeedBalance: 10000}, &fakeDB{store: store},
		fakeUserRepo{store}, fakeAccountRepo{store}, authority)
	return svc, store, authority
}

func validSignup(username string) views.SignupRequest {
	return views.SignupRequest{Username: username, Password: "hunter2!x", ConfirmPassword: "hunter2!x"}
}

func TestSignupThenLogin(t *testing.T) {
	svc, store, authority := newCredentialFixture()
	ctx := context.Background()

	userID, err := svc.Signup(ctx, "trace", validSignup("  priya  "))
	require.NoError(t, err)
	require.Contains(t, store.users, userID)

	stored := store.users[userID]
	assert.Equal(t, "priya", stored.Username)
	assert.NotEqual(t, "hunter2!x", stored.PasswordHash)
	balance := store.balanceOf(userID)
	assert.GreaterOrEqual(t, balance, int64(0))
	assert.Less(t, balance, int64(10000))

	session, user, err := svc.Login(ctx, "trace", views.LoginRequest{Username: "Priya", Password: "hunter2!x"})
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	identity, err := authority.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: userID, Username: "priya"}, identity)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, store, _ := newCredentialFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "trace", validSignup("ravi"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "trace", validSignup("RAVI"))
	assert.ErrorIs(t, err, pkg.ErrDuplicateUsername)
	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Username already taken", appErr.Message)

	assert.Len(t, store.users, 1)
	assert.Len(t, store.accounts, 1)
}

func TestSignup_ValidationFields(t *testing.T) {
	svc, store, _ := newCredentialFixture()

	_, err := svc.Signup(context.Background(), "trace", views.SignupRequest{
		Username: "   ", Password: "short", ConfirmPassword: "other",
	})
	assert.ErrorIs(t, err, pkg.ErrValidation)
	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Username cannot be empty or blank spaces", appErr.Fields["username"])
	assert.Equal(t, "Password must be atleast 8 characters long", appErr.Fields["password"])
	assert.Equal(t, "Passwords don't match", appErr.Fields["confirmPassword"])
	assert.Empty(t, store.users)
}

func TestVerify_DoesNotRevealWhichPartFailed(t *testing.T) {
	svc, _, _ := newCredentialFixture()
	ctx := context.Background()
	_, err := svc.Signup(ctx, "trace", validSignup("meera"))
	require.NoError(t, err)

	_, ok, err := svc.Verify(ctx, "trace", "meera", "wrong1!pass")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Verify(ctx, "trace", "nobody", "hunter2!x")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Login(ctx, "trace", views.LoginRequest{Username: "meera", Password: "wrong1!pass"})
	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkg.ErrInvalidCredentialsCode, appErr.Code)
}

func TestRegister_RandomSeedBalance(t *testing.T) {
	svc, store, _ := newCredentialFixture()
	svc.seedBalance = func() int64 { return 4321 }

	userID, err := svc.Register(context.Background(), "trace", "kiran", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(4321), store.balanceOf(userID))
}

func TestLogout_StatelessAuthority(t *testing.T) {
	svc, _, _ := newCredentialFixture()
	assert.NoError(t, svc.Logout(context.Background(), "trace", "anything"))
}
