package services

import (
	"context"
	"errors"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LedgerService is the read side of accounts and transfers.
type LedgerService interface {
	GetBalance(ctx context.Context, traceId string, userID int64) (int64, error)
	// ListTransactions returns every transfer sent or received by the user, newest first.
	ListTransactions(ctx context.Context, traceId string, userID int64) ([]models.TransferDetail, error)
	// RecentCounterparties returns distinct users from the latest limit transfers, most recent first, excluding the caller.
	RecentCounterparties(ctx context.Context, traceId string, userID int64, limit int) ([]models.Counterparty, error)
}

type LedgerServiceImpl struct {
	logger       *zap.Logger
	db           database.Handle
	accountRepo  repositories.AccountRepository
	transferRepo repositories.TransferRepository
}

func NewLedgerService(logger *zap.Logger, db database.Handle, accountRepo repositories.AccountRepository,
	transferRepo repositories.TransferRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		logger:       logger,
		db:           db,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
	}
}

func (s *LedgerServiceImpl) GetBalance(ctx context.Context, traceId string, userID int64) (int64, error) {
	account, err := s.account(ctx, traceId, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, traceId string, userID int64) ([]models.TransferDetail, error) {
	account, err := s.account(ctx, traceId, userID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.ListByAccount(ctx, s.db, account.ID, 0)
	if err != nil {
		return nil, pkg.HandleSQLError(traceId, s.logger, err)
	}
	return transfers, nil
}

func (s *LedgerServiceImpl) RecentCounterparties(ctx context.Context, traceId string, userID int64, limit int) ([]models.Counterparty, error) {
	if limit <= 0 {
		limit = pkg.DefaultRecentLimit
	}
	account, err := s.account(ctx, traceId, userID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.ListByAccount(ctx, s.db, account.ID, limit)
	if err != nil {
		return nil, pkg.HandleSQLError(traceId, s.logger, err)
	}
	return collectCounterparties(transfers, account.ID, userID), nil
}

// account reads from the primary so balances reflect the caller's own transfers immediately.
func (s *LedgerServiceImpl) account(ctx context.Context, traceId string, userID int64) (models.Account, error) {
	account, err := s.accountRepo.FindByUserID(ctx, s.db.Primary(), userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, pkg.NewAppError(pkg.ErrAccountNotFoundCode, "", pkg.ErrAccountNotFound)
	}
	if err != nil {
		return models.Account{}, pkg.HandleSQLError(traceId, s.logger, err)
	}
	return account, nil
}

// collectCounterparties keeps the first occurrence of each other user, preserving input order.
func collectCounterparties(transfers []models.TransferDetail, accountID int64, selfUserID int64) []models.Counterparty {
	seen := make(map[int64]struct{}, len(transfers))
	out := make([]models.Counterparty, 0, len(transfers))
	for _, t := range transfers {
		other := t.Counterparty(accountID)
		if other.ID == selfUserID {
			continue
		}
		if _, dup := seen[other.ID]; dup {
			continue
		}
		seen[other.ID] = struct{}{}
		out = append(out, other)
	}
	return out
}
