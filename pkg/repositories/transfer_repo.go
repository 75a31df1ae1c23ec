package repositories

import (
	"context"

	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
)

type TransferRepository interface {
	// Create appends a ledger row and fills ID and CreatedAt.
	Create(ctx context.Context, q database.Querier, transfer *models.Transfer) error
	// ListByAccount returns transfers sent or received by accountID, newest first.
	// limit <= 0 returns every row.
	ListByAccount(ctx context.Context, q database.Querier, accountID int64, limit int) ([]models.TransferDetail, error)
}

type TransferRepositoryImpl struct {
}

func NewTransferRepository() TransferRepository {
	return &TransferRepositoryImpl{}
}

func (t TransferRepositoryImpl) Create(ctx context.Context, q database.Querier, transfer *models.Transfer) error {
	return q.QueryRow(ctx, `
						INSERT INTO transfers (amount, sender_id, receiver_id)
						VALUES ($1, $2, $3)
						RETURNING id, created_at`,
		transfer.Amount,
		transfer.SenderID,
		transfer.ReceiverID,
	).Scan(&transfer.ID, &transfer.CreatedAt)
}

const listByAccountQuery = `
	SELECT t.id, t.amount, t.sender_id, t.receiver_id, t.created_at,
	       su.id, su.username, ru.id, ru.username
	FROM transfers t
	JOIN accounts sa ON sa.id = t.sender_id
	JOIN users su ON su.id = sa.user_id
	JOIN accounts ra ON ra.id = t.receiver_id
	JOIN users ru ON ru.id = ra.user_id
	WHERE t.sender_id = $1 OR t.receiver_id = $1
	ORDER BY t.created_at DESC, t.id DESC`

func (t TransferRepositoryImpl) ListByAccount(ctx context.Context, q database.Querier, accountID int64, limit int) ([]models.TransferDetail, error) {
	query, args := listByAccountQuery, []any{accountID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]models.TransferDetail, 0)
	for rows.Next() {
		var d models.TransferDetail
		if err = rows.Scan(
			&d.ID,
			&d.Amount,
			&d.SenderID,
			&d.ReceiverID,
			&d.CreatedAt,
			&d.SenderUserID,
			&d.SenderUsername,
			&d.ReceiverUserID,
			&d.ReceiverUsername,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, d)
	}
	return transfers, rows.Err()
}
