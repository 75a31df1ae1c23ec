package views

import (
	"time"
)

// TransferEvent is published after a transfer commits.
type TransferEvent struct {
	TransferID        int64     `json:"transferId"`
	SenderAccountID   int64     `json:"senderAccountId"`
	ReceiverAccountID int64     `json:"receiverAccountId"`
	SenderUsername    string    `json:"senderUsername"`
	ReceiverUsername  string    `json:"receiverUsername"`
	Amount            int64     `json:"amount"`
	OccurredAt        time.Time `json:"occurredAt"`
}
