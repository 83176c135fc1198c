package leaveerrors

import (
	"net/http"

	"hris-leave/internal/shared/apperror"
)

const (
	CodeInvalidRange     = "INVALID_RANGE"
	CodeAdvanceNotice    = "ADVANCE_NOTICE_REQUIRED"
	CodeBirthdayMismatch = "BIRTHDAY_LEAVE_MISMATCH"
	CodeOverlap          = "LEAVE_OVERLAP"
	CodeAlreadyProcessed = "ALREADY_PROCESSED"
	CodeNotCancellable   = "NOT_CANCELLABLE"
	CodeEmployeeNotFound = "EMPLOYEE_NOT_FOUND"
)

var (
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
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
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		CodeInvalidRange,
		"start_date must be before or equal to end_date",
		http.StatusBadRequest,
	)
	ErrAdvanceNotice = apperror.New(
		CodeAdvanceNotice,
		"leave must be requested at least one day in advance",
		http.StatusUnprocessableEntity,
	)
	ErrBirthDateMissing = apperror.New(
		CodeBirthdayMismatch,
		"birthday leave requires a recorded birth date",
		http.StatusUnprocessableEntity,
	)
	ErrBirthdayWrongDay = apperror.New(
		CodeBirthdayMismatch,
		"birthday leave must start on your birthday",
		http.StatusUnprocessableEntity,
	)
	ErrBirthdayTooLong = apperror.New(
		CodeBirthdayMismatch,
		"birthday leave is limited to one day",
		http.StatusUnprocessableEntity,
	)
	ErrOwnOverlap = apperror.New(
		CodeOverlap,
		"you already have a pending or approved leave request in this period",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		CodeAlreadyProcessed,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrNotCancellable = apperror.New(
		CodeNotCancellable,
		"only pending leave requests can be cancelled",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you can only act on your own leave requests",
		http.StatusForbidden,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		CodeEmployeeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
)

type OverlapDetails struct {
	ConflictingID string `json:"conflicting_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
}
