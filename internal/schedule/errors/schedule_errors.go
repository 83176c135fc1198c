package scheduleerrors

import (
	"net/http"

	"hris-leave/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(apperror.CodeInvalidInput, "invalid employee id", http.StatusBadRequest)
	ErrInvalidDate       = apperror.New(apperror.CodeInvalidInput, "dates must use the YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidRange      = apperror.New("INVALID_RANGE", "from must not be after to", http.StatusBadRequest)
	ErrRangeTooWide      = apperror.New("RANGE_TOO_WIDE", "schedule window is limited to 92 days", http.StatusBadRequest)
)
