package repositories

import (
	"context"

	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines the interface for account repository.
type AccountRepository interface {
	// Create inserts the account and fills ID and timestamps.
	Create(ctx context.Context, q database.Querier, account *models.Account) error
	// FindByUserID returns pgx.ErrNoRows when the user has no account.
	FindByUserID(ctx context.Context, q database.Querier, userID int64) (models.Account, error)
	// FindByUsername resolves an account through its owner's username.
	FindByUsername(ctx context.Context, q database.Querier, username string) (models.Account, models.User, error)
	// LockByIDs takes row locks on the accounts in ascending id order and returns them keyed by id.
	// Must run inside a transaction.
	LockByIDs(ctx context.Context, tx pgx.Tx, accountIDs ...int64) (map[int64]models.Account, error)
	// Debit subtracts amount only if the balance covers it. ok is false when it does not.
	Debit(ctx context.Context, q database.Querier, accountID int64, amount int64) (ok bool, err error)
	// Credit adds amount to the balance.
	Credit(ctx context.Context, q database.Querier, accountID int64, amount int64) error
}

type AccountRepositoryImpl struct {
}

func NewAccountRepository() AccountRepository {
	return &AccountRepositoryImpl{}
}

func (a AccountRepositoryImpl) Create(ctx context.Context, q database.Querier, account *models.Account) error {
	return q.QueryRow(ctx, `INSERT INTO accounts (user_id, balance)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		account.UserID, account.Balance).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (a AccountRepositoryImpl) FindByUserID(ctx context.Context, q database.Querier, userID int64) (models.Account, error) {
	var account models.Account
	err := q.QueryRow(ctx, `SELECT id, user_id, balance, created_at, updated_at FROM accounts WHERE user_id = $1`, userID).Scan(
		&account.ID, &account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
	return account, err
}

func (a AccountRepositoryImpl) FindByUsername(ctx context.Context, q database.Querier, username string) (models.Account, models.User, error) {
	var account models.Account
	var user models.User
	err := q.QueryRow(ctx, `SELECT a.id, a.user_id, a.balance, a.created_at, a.updated_at, u.id, u.username
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE lower(u.username) = lower($1)`, username).Scan(
		&account.ID, &account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt,
		&user.ID, &user.Username)
	return account, user, err
}

func (a AccountRepositoryImpl) LockByIDs(ctx context.Context, tx pgx.Tx, accountIDs ...int64) (map[int64]models.Account, error) {
	rows, err := tx.Query(ctx, `SELECT id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locked := make(map[int64]models.Account, len(accountIDs))
	for rows.Next() {
		var account models.Account
		if err = rows.Scan(&account.ID, &account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, err
		}
		locked[account.ID] = account
	}
	return locked, rows.Err()
}

func (a AccountRepositoryImpl) Debit(ctx context.Context, q database.Querier, accountID int64, amount int64) (bool, error) {
	tag, err := q.Exec(ctx, `UPDATE accounts SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1`, amount, accountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (a AccountRepositoryImpl) Credit(ctx context.Context, q database.Querier, accountID int64, amount int64) error {
	tag, err := q.Exec(ctx, `UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`, amount, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}
