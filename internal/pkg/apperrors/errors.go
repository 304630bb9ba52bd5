package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrMalformedInput   = errors.New("malformed input")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// Catalog errors
var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("test question not found")
	ErrAnswerNotFound   = errors.New("test answer not found")
)

// Payment errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAlreadyFullyPaid is returned when an installment is recorded
	// against a payment with no remaining installments.
	ErrAlreadyFullyPaid = errors.New("payment already fully paid")
	// ErrSectionAlreadyPaid is returned when a user attempts to pay for a
	// section they have already fully paid for.
	ErrSectionAlreadyPaid = errors.New("section already paid")
	// ErrGatewayFailure wraps a failed charge attempt; the gateway's own
	// code/message travel in a CustomError.
	ErrGatewayFailure = errors.New("payment gateway failure")
	// ErrReferentialRestriction is returned when a delete would orphan a
	// payment row.
	ErrReferentialRestriction = errors.New("record is referenced by existing payments")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewGatewayError wraps a gateway error code/message pair.
func NewGatewayError(code, message string) error {
	return &CustomError{
		Err:     ErrGatewayFailure,
		Message: message,
		Code:    code,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}
