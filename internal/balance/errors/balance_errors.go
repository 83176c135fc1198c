package balanceerrors

import (
	"net/http"

	"hris-leave/internal/shared/apperror"
)

const CodeInsufficientBalance = "INSUFFICIENT_BALANCE"

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrNegativeDays = apperror.New(
		apperror.CodeInvalidInput,
		"total_days and used_days must not be negative",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
)

type InsufficientBalanceDetails struct {
	LeaveType     string `json:"leave_type"`
	RemainingDays int    `json:"remaining_days"`
	RequestedDays int    `json:"requested_days"`
}

// InsufficientBalance builds the error for one failed check; it still matches
// ErrInsufficientBalance under errors.Is.
func InsufficientBalance(label string, remaining, requested int) *apperror.AppError {
	err := ErrInsufficientBalance.WithDetails(InsufficientBalanceDetails{
		LeaveType:     label,
		RemainingDays: remaining,
		RequestedDays: requested,
	})
	err.Message = "insufficient " + label + " balance"
	return err
}
