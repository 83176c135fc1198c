package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrForbidden = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrInternal  = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)

	ErrTokenMissing      = New(CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrTokenInvalid      = New(CodeTokenInvalid, "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired      = New(CodeTokenExpired, "Token has expired", http.StatusUnauthorized)
	ErrRateLimited       = New(CodeRateLimited, "Too many requests", http.StatusTooManyRequests)
	ErrRequestInProgress = New(CodeRequestInProgress, "A request with this idempotency key is still being processed", http.StatusConflict)
	ErrIdempotencyReused = New(CodeIdempotencyReused, "This idempotency key was already used with a different request body", http.StatusUnprocessableEntity)
)

func RequiredField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
}
