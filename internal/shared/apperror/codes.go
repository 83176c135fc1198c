package apperror

// Codes shared by every module. Module packages add their own domain codes.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"

	// Transport
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeTokenInvalid      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeRequestInProgress = "REQUEST_IN_PROGRESS"
	CodeIdempotencyReused = "IDEMPOTENCY_KEY_REUSED"

	CodeInternalError = "INTERNAL_ERROR"
)
