package dto

import "time"

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

const (
	// Validation
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeMalformedInput   ErrorCode = "VAL_002"
	ErrorCodeInvalidFormat    ErrorCode = "VAL_003"

	// Resources
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_003"

	// Payments
	ErrorCodeInvalidPaymentState ErrorCode = "PAY_001"
	ErrorCodeAlreadyFullyPaid    ErrorCode = "PAY_002"
	ErrorCodeSectionAlreadyPaid  ErrorCode = "PAY_003"
	ErrorCodeGatewayFailure      ErrorCode = "PAY_004"

	// Referential integrity
	ErrorCodeReferentialRestriction ErrorCode = "REF_001"

	// Auth
	ErrorCodeUnauthorized     ErrorCode = "AUTH_001"
	ErrorCodeTokenExpired     ErrorCode = "AUTH_002"
	ErrorCodeTokenInvalid     ErrorCode = "AUTH_003"
	ErrorCodePermissionDenied ErrorCode = "AUTH_004"

	// Server
	ErrorCodeInternalError ErrorCode = "SRV_001"
)

// ErrorDetail is the error body placed in the response envelope.
type ErrorDetail struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorResponse builds an envelope carrying only an error.
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	}
}

// NewErrorResponseWithDetails builds an error envelope with extra context,
// typically field-level validation violations.
func NewErrorResponseWithDetails(code ErrorCode, message string, details interface{}) APIResponse {
	return APIResponse{
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
}
