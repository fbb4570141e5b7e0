// Package apperr defines the application-layer error shape shared by every
// service. Each error maps onto exactly one HTTP response.
package apperr

// Stable error codes for the service taxonomy.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInsufficientRole   = "INSUFFICIENT_ROLE"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidAction      = "INVALID_ACTION"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Unauthenticated reports a missing or invalid session.
func Unauthenticated(message string) *Error {
	return &Error{Status: 401, Code: CodeUnauthenticated, Message: message}
}

// InsufficientRole reports a role or ownership check failure.
func InsufficientRole(message string) *Error {
	return &Error{Status: 403, Code: CodeInsufficientRole, Message: message}
}

// Validation reports missing, oversized, or malformed input.
func Validation(message string, details map[string]any) *Error {
	return &Error{Status: 400, Code: CodeValidation, Message: message, Details: details}
}

// InvalidAction reports an unrecognized action token.
func InvalidAction(message string) *Error {
	return &Error{Status: 400, Code: CodeInvalidAction, Message: message}
}

// InvalidTransition reports a status change not permitted from the current state.
func InvalidTransition(message string, details map[string]any) *Error {
	return &Error{Status: 400, Code: CodeInvalidTransition, Message: message, Details: details}
}

// NotFound reports an absent target entity.
func NotFound(message string) *Error {
	return &Error{Status: 404, Code: CodeNotFound, Message: message}
}

// Storage reports a collaborator read/write failure. The underlying error is
// surfaced to the caller classified, never retried silently: every mutation in
// this core is a single idempotent step and safe to retry at the caller's
// discretion.
func Storage(err error) *Error {
	msg := "storage unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Status: 500, Code: CodeStorageUnavailable, Message: msg}
}
