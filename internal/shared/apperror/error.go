package apperror

import (
	"errors"
	"net/http"
)

// AppError is a client-facing failure. Code is stable and machine readable;
// Message is safe to show.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    any

	// origin is the sentinel a WithDetails copy was made from.
	origin *AppError
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches the same sentinel. Copies made with WithDetails match the
// sentinel they came from, even when their message was rewritten; distinct
// sentinels sharing a code do not match.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t == nil {
		return false
	}
	return e.root() == t.root()
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	cp.origin = e.root()
	return &cp
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps err to its transport view. Errors that are not an *AppError are
// infrastructure failures and collapse into a generic internal error.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{
			Status:  status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}
	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
