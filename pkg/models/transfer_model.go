package models

import (
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg/views"
)

// Transfer maps to table `transfers`. Rows are immutable once inserted.
type Transfer struct {
	ID         int64
	Amount     int64
	SenderID   int64 // account id
	ReceiverID int64 // account id
	CreatedAt  time.Time
}

// TransferDetail is a Transfer joined with both parties' users.
type TransferDetail struct {
	Transfer
	SenderUserID     int64
	SenderUsername   string
	ReceiverUserID   int64
	ReceiverUsername string
}

// Counterparty returns the other side of the transfer as seen from accountID.
func (t TransferDetail) Counterparty(accountID int64) Counterparty {
	if t.SenderID == accountID {
		return Counterparty{ID: t.ReceiverUserID, Username: t.ReceiverUsername}
	}
	return Counterparty{ID: t.SenderUserID, Username: t.SenderUsername}
}

func (t TransferDetail) ToTransactionView() views.TransactionView {
	return views.TransactionView{
		ID:         t.ID,
		Amount:     t.Amount,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Sender:     t.SenderUsername,
		Receiver:   t.ReceiverUsername,
		CreatedAt:  t.CreatedAt,
	}
}

func (t Transfer) ToTransferEvent(senderUsername, receiverUsername string) views.TransferEvent {
	return views.TransferEvent{
		TransferID:        t.ID,
		SenderAccountID:   t.SenderID,
		ReceiverAccountID: t.ReceiverID,
		SenderUsername:    senderUsername,
		ReceiverUsername:  receiverUsername,
		Amount:            t.Amount,
		OccurredAt:        t.CreatedAt,
	}
}
