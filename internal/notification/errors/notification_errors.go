package notificationerrors

import (
	"net/http"

	"hris-leave/internal/shared/apperror"
)

var (
	ErrInvalidRecipientID = apperror.New(apperror.CodeInvalidInput, "invalid recipient id", http.StatusBadRequest)
	ErrInvalidID          = apperror.New(apperror.CodeInvalidInput, "invalid notification id", http.StatusBadRequest)
	ErrNotFound           = apperror.New(apperror.CodeNotFound, "notification not found", http.StatusNotFound)
)
