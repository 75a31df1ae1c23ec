package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	testutils "github.com/Seer7-SWE/PayTM-clone/pkg/utils/test"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWallet_Postgres(t *testing.T) {
	db, _ := testutils.StartPostgres(t)
	ctx := context.Background()
	logger := zap.NewNop()
	cfg := &configs.Config{MaxSeedBalance: 10000, TransferTimeout: 5 * time.Second, SearchLimit: 20, RecentLimit: 10}

	userRepo := repositories.NewUserRepository()
	accountRepo := repositories.NewAccountRepository()
	transferRepo := repositories.NewTransferRepository()
	authority := auth.NewSessionAuthority(logger, "integration-secret-0123", time.Hour, nil)

	credentials := NewCredentialService(logger, cfg, db, userRepo, accountRepo, authority)
	transfers := NewTransferService(logger, cfg, db, userRepo, accountRepo, transferRepo, NewNoopPublisher(logger))
	ledger := NewLedgerService(logger, db, accountRepo, transferRepo)
	directory := NewDirectoryService(logger, db, userRepo, cfg.SearchLimit)

	signup := func(username string, balance int64) int64 {
		credentials.seedBalance = func() int64 { return balance }
		id, err := credentials.Signup(ctx, "it", views.SignupRequest{Username: username, Password: "secret1!x", ConfirmPassword: "secret1!x"})
		require.NoError(t, err)
		return id
	}
	sender := signup("sender", 100)
	receiver := signup("Receiver", 0)

	t.Run("signup then login", func(t *testing.T) {
		session, user, err := credentials.Login(ctx, "it", views.LoginRequest{Username: "SENDER", Password: "secret1!x"})
		require.NoError(t, err)
		assert.Equal(t, sender, user.ID)
		identity, err := authority.Validate(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, sender, identity.UserID)

		_, err = credentials.Signup(ctx, "it", views.SignupRequest{Username: "Sender", Password: "secret1!x", ConfirmPassword: "secret1!x"})
		assert.ErrorIs(t, err, pkg.ErrDuplicateUsername)
	})

	t.Run("concurrent transfers cannot overdraw", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = transfers.Transfer(ctx, "it", sender, "receiver", 60)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, pkg.ErrInsufficientFunds), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)

		balance, err := ledger.GetBalance(ctx, "it", sender)
		require.NoError(t, err)
		assert.Equal(t, int64(40), balance)
		balance, err = ledger.GetBalance(ctx, "it", receiver)
		require.NoError(t, err)
		assert.Equal(t, int64(60), balance)
	})

	t.Run("history and recent", func(t *testing.T) {
		_, err := transfers.Transfer(ctx, "it", receiver, "sender", 10)
		require.NoError(t, err)

		history, err := ledger.ListTransactions(ctx, "it", sender)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, int64(10), history[0].Amount)
		assert.Equal(t, "Receiver", history[0].SenderUsername)

		recent, err := ledger.RecentCounterparties(ctx, "it", sender, cfg.RecentLimit)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, receiver, recent[0].ID)
	})

	t.Run("search", func(t *testing.T) {
		found, err := directory.SearchUsers(ctx, "it", "CEIV", sender)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Receiver", found[0].Username)

		found, err = directory.SearchUsers(ctx, "it", "sender", sender)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
