package views

import (
	"encoding/json"
	"testing"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountInput(t *testing.T) {
	tests := []struct {
		body    string
		want    int64
		wantErr bool
	}{
		{`{"amount": 42}`, 42, false},
		{`{"amount": "42"}`, 42, false},
		{`{"amount": " 7 "}`, 7, false},
		{`{"amount": "-3"}`, -3, false},
		{`{"amount": "4e2"}`, 0, true},
		{`{"amount": 1.5}`, 0, true},
		{`{"amount": "ten"}`, 0, true},
		{`{"amount": null}`, 0, true},
		{`{}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req SendRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			got, err := req.Amount.Int64()
			if tt.wantErr {
				assert.ErrorIs(t, err, pkg.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendRequest_Parse(t *testing.T) {
	req := SendRequest{ToUsername: "  ravi ", Amount: NewAmountInput("15")}
	to, amount, err := req.Parse()
	require.NoError(t, err)
	assert.Equal(t, "ravi", to)
	assert.Equal(t, int64(15), amount)

	// amount is reported before the recipient
	req = SendRequest{ToUsername: "", Amount: NewAmountInput("0")}
	_, _, err = req.Parse()
	assert.ErrorIs(t, err, pkg.ErrInvalidAmount)

	req = SendRequest{ToUsername: " ", Amount: NewAmountInput("5")}
	_, _, err = req.Parse()
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    SignupRequest
		fields map[string]string
	}{
		{
			name: "valid",
			req:  SignupRequest{Username: "  neha  ", Password: "abcdef1#", ConfirmPassword: "abcdef1#"},
		},
		{
			name:   "username too long after trim",
			req:    SignupRequest{Username: " abcdefghijklmnopqrstu ", Password: "abcdef1#", ConfirmPassword: "abcdef1#"},
			fields: map[string]string{"username": "Username must be atmost 20 characters long"},
		},
		{
			name:   "password without special character",
			req:    SignupRequest{Username: "neha", Password: "abcdefg1", ConfirmPassword: "abcdefg1"},
			fields: map[string]string{"password": "Password must contain at least one lowercase letter, one number, and one special character (!@#)"},
		},
		{
			name:   "password without lowercase",
			req:    SignupRequest{Username: "neha", Password: "ABCDEF1!", ConfirmPassword: "ABCDEF1!"},
			fields: map[string]string{"password": "Password must contain at least one lowercase letter, one number, and one special character (!@#)"},
		},
		{
			name:   "mismatched confirmation",
			req:    SignupRequest{Username: "neha", Password: "abcdef1#", ConfirmPassword: "abcdef1!"},
			fields: map[string]string{"confirmPassword": "Passwords don't match"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var appErr pkg.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.fields, appErr.Fields)
		})
	}
}
