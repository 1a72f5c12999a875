package domain

type ErrorCode string

const (
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeViewerBlocked      ErrorCode = "VIEWER_BLOCKED"
	ErrorCodeRoleRequired       ErrorCode = "ROLE_REQUIRED"
	ErrorCodeSuperAdminRequired ErrorCode = "SUPER_ADMIN_REQUIRED"
	ErrorCodeValidation         ErrorCode = "VALIDATION"
	ErrorCodeConflict           ErrorCode = "CONFLICT"
	ErrorCodeCycleLocked        ErrorCode = "CYCLE_LOCKED"
	ErrorCodeInternal           ErrorCode = "INTERNAL"
)

// DomainError is a user-facing failure with a stable code the API layer maps
// onto HTTP statuses. Messages are safe to show to the client.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	return string(e.Code) + ": " + e.Message
}
