package views

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	pkgviews "github.com/Seer7-SWE/PayTM-clone/pkg/views"
)

// AmountInput accepts an amount sent either as a JSON number or as a string.
type AmountInput struct {
	raw string
}

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		a.raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.raw = s
		return nil
	}
	a.raw = string(data)
	return nil
}

// NewAmountInput wraps a raw amount, mainly for tests and internal callers.
func NewAmountInput(raw string) AmountInput {
	return AmountInput{raw: raw}
}

// Int64 parses the amount as a whole number of minor units.
func (a AmountInput) Int64() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(a.raw), 10, 64)
	if err != nil {
		return 0, pkg.NewAppError(pkg.ErrInvalidAmountCode, "", pkg.ErrInvalidAmount)
	}
	return v, nil
}

// SendRequest is the body of POST /api/account/send.
type SendRequest struct {
	ToUsername string      `json:"toUsername"`
	Amount     AmountInput `json:"amount"`
}

// Parse validates the request in the order callers observe: amount first, then recipient.
func (r *SendRequest) Parse() (toUsername string, amount int64, err error) {
	amount, err = r.Amount.Int64()
	if err != nil {
		return "", 0, err
	}
	if amount <= 0 {
		return "", 0, pkg.NewAppError(pkg.ErrInvalidAmountCode, "", pkg.ErrInvalidAmount)
	}
	toUsername = strings.TrimSpace(r.ToUsername)
	if toUsername == "" {
		return "", 0, pkg.NewValidationError("Username is required", map[string]string{"toUsername": "Username is required"})
	}
	return toUsername, amount, nil
}

type SendResponse struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Transfer pkgviews.TransactionView `json:"transfer"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}
