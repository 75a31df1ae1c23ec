package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var ExposeErrorDetails = false

func init() {
	if gin.DebugMode == gin.Mode() || gin.TestMode == gin.Mode() {
		ExposeErrorDetails = true
	}
}

// Sentinel causes. AppErrors wrap one of these so callers can match with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransferFailed    = errors.New("transfer failed")
	SqlError             = errors.New("sql error")
)

// ErrorCode defines a standardized error code
type ErrorCode struct {
	Code    string
	Status  int
	Message string // default message
}

var (
	// Generic app
	ErrInvalidInputCode     = ErrorCode{Code: "APP_INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
	ErrNotAuthenticatedCode = ErrorCode{Code: "APP_NOT_AUTHENTICATED", Status: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrRecordNotFoundCode   = ErrorCode{Code: "APP_NOT_FOUND", Status: http.StatusNotFound, Message: "record not found"}
	ErrServerCode           = ErrorCode{Code: "APP_INTERNAL", Status: http.StatusInternalServerError, Message: "An unexpected error occurred. Please try again."}

	// Business/domain rules
	ErrInvalidAmountCode      = ErrorCode{Code: "TRANSFER_INVALID_AMOUNT", Status: http.StatusBadRequest, Message: "Amount must be greater than zero"}
	ErrAccountNotFoundCode    = ErrorCode{Code: "ACCOUNT_NOT_FOUND", Status: http.StatusNotFound, Message: "Account not found"}
	ErrInsufficientFundsCode  = ErrorCode{Code: "BUSINESS_INSUFFICIENT_FUNDS", Status: http.StatusBadRequest, Message: "Insufficient funds"}
	ErrDuplicateUsernameCode  = ErrorCode{Code: "USER_DUPLICATE_USERNAME", Status: http.StatusBadRequest, Message: "Username already taken"}
	ErrTransferFailedCode     = ErrorCode{Code: "TRANSFER_FAILED", Status: http.StatusInternalServerError, Message: "Transfer failed. Please try again."}
	ErrInvalidCredentialsCode = ErrorCode{Code: "AUTH_INVALID_CREDENTIALS", Status: http.StatusUnauthorized, Message: "Invalid username or password"}

	// SQL layer
	ErrSQLUnknownCode   = ErrorCode{Code: "SQL_UNKNOWN", Status: http.StatusInternalServerError, Message: "sql error"}
	ErrSQLConflictCode  = ErrorCode{Code: "SQL_CONFLICT", Status: http.StatusInternalServerError, Message: "sql conflict"}
	ErrSQLDuplicateCode = ErrorCode{Code: "SQL_DUPLICATE", Status: http.StatusBadRequest, Message: "duplicate record"}
	ErrSQLInvalidInput  = ErrorCode{Code: "SQL_INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
)

type AppError struct {
	Code    ErrorCode
	Message string            // public-facing message
	Fields  map[string]string // per-field validation messages
	Cause   error             // internal cause (wrapped)
}

func (e AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
func (e AppError) Unwrap() error { return e.Cause }

func NewAppError(code ErrorCode, msg string, cause error) error {
	if msg == "" {
		msg = code.Message
	}
	return AppError{Code: code, Message: msg, Cause: cause}
}

// NewValidationError reports invalid input together with the offending fields.
func NewValidationError(msg string, fields map[string]string) error {
	return AppError{Code: ErrInvalidInputCode, Message: msg, Fields: fields, Cause: ErrValidation}
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Status  int               `json:"-"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty"`
}

// ToErrorResponse converts an error into an ErrorResponse and logs it.
// Anything that is not an AppError becomes a generic 500 so internals never leak.
func ToErrorResponse(logger *zap.Logger, traceID string, err error) ErrorResponse {
	var appErr AppError
	var resp ErrorResponse
	if errors.As(err, &appErr) {
		resp = ErrorResponse{
			Status: appErr.Code.Status,
			Code:   appErr.Code.Code,
			Error:  appErr.Message,
			Fields: appErr.Fields,
		}
	} else {
		resp = ErrorResponse{
			Status: ErrServerCode.Status,
			Code:   ErrServerCode.Code,
			Error:  ErrServerCode.Message,
		}
	}

	if resp.Status >= http.StatusInternalServerError {
		logger.Error("application_error", zap.String(TraceId, traceID), zap.String("code", resp.Code), zap.Error(err))
	} else {
		logger.Warn("request_rejected", zap.String(TraceId, traceID), zap.String("code", resp.Code), zap.Error(err))
	}
	if ExposeErrorDetails && err != nil {
		resp.Details = err.Error()
	}
	return resp
}

// IsBusinessError reports whether err is an AppError the caller can act on (4xx).
func IsBusinessError(err error) bool {
	var appErr AppError
	return errors.As(err, &appErr) && appErr.Code.Status < http.StatusInternalServerError
}

// HandleSQLError maps pg errors -> AppError with proper codes/status
func HandleSQLError(traceId string, logger *zap.Logger, err error) error {
	var pgErr *pgconn.PgError
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Warn("sql_no_rows", zap.String(TraceId, traceId))
		return NewAppError(ErrRecordNotFoundCode, "", ErrNotFound)
	}
	if !errors.As(err, &pgErr) {
		logger.Error("sql_error_unknown", zap.String(TraceId, traceId), zap.Error(err))
		return NewAppError(ErrSQLUnknownCode, "", err)
	}

	logger.Error("sql_error",
		zap.String(TraceId, traceId),
		zap.String("code", pgErr.Code),
		zap.String("message", pgErr.Message),
		zap.String("detail", pgErr.Detail),
		zap.String("table", pgErr.TableName),
		zap.String("constraint", pgErr.ConstraintName),
	)

	switch pgErr.Code {
	case "23505": // unique_violation
		return NewAppError(ErrSQLDuplicateCode, "duplicate value violates unique constraint", err)
	case "23503": // foreign_key_violation
		return NewAppError(ErrSQLConflictCode, "foreign key violation", err)
	case "23514": // check_violation, e.g. balance >= 0
		return NewAppError(ErrSQLConflictCode, "check constraint violated", err)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return NewAppError(ErrSQLConflictCode, "concurrent update, retry", err)
	case "22P02", "22001", "22003":
		return NewAppError(ErrSQLInvalidInput, "", err)
	default:
		return NewAppError(ErrSQLUnknownCode, "", err)
	}
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
