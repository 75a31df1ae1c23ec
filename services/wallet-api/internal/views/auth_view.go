package views

import (
	"reflect"
	"strings"
	"time"
)

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Username        string `json:"username" validate:"notblank,min=3,max=20"`
	Password        string `json:"password" validate:"min=8,wallet_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

var signupMessages = fieldMessages{
	"username.notblank":        "Username cannot be empty or blank spaces",
	"username.min":             "Username must be atleast 3 characters long",
	"username.max":             "Username must be atmost 20 characters long",
	"password.min":             "Password must be atleast 8 characters long",
	"password.wallet_password": "Password must contain at least one lowercase letter, one number, and one special character (!@#)",
	"confirmPassword.eqfield":  "Passwords don't match",
}

// Normalize trims the username. Passwords are kept byte for byte.
func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// Validate returns a validation AppError with one message per failing field.
func (r *SignupRequest) Validate() error {
	return validateStruct(r, signupMessages)
}

// LoginRequest is the body of POST /api/signin.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// jsonName reports struct fields by their json name in validation errors.
func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
