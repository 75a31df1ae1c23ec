package views

import "time"

// TransactionView is one row of a caller's transaction history.
type TransactionView struct {
	ID         int64     `json:"id"`
	Amount     int64     `json:"amount"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Sender     string    `json:"sender"`
	Receiver   string    `json:"receiver"`
	CreatedAt  time.Time `json:"createdAt"`
}
