package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// HandleAPIError maps application errors onto the HTTP error taxonomy. Every
// controller funnels its failures through here so the wire format stays
// uniform.
func HandleAPIError(c *gin.Context, err error) {
	// Rule violations carry a machine-readable kind worth surfacing.
	var violation *validation.Violation
	if errors.As(err, &violation) {
		code := dto.ErrorCodeValidationFailed
		status := http.StatusBadRequest
		if violation.Kind == validation.KindMalformedInput {
			code = dto.ErrorCodeMalformedInput
		}
		c.JSON(status, dto.NewErrorResponseWithDetails(code, violation.Message, gin.H{
			"kind": string(violation.Kind),
		}))
		return
	}

	// Gateway failures keep the provider's own code alongside ours.
	var customErr *apperrors.CustomError
	if errors.Is(err, apperrors.ErrGatewayFailure) {
		details := gin.H{}
		if errors.As(err, &customErr) && customErr.Code != "" {
			details["gatewayCode"] = customErr.Code
		}
		c.JSON(http.StatusBadGateway, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeGatewayFailure, "Payment was not completed", details))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeMalformedInput, err.Error()))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrMediaNotFound, apperrors.ErrSectionNotFound, apperrors.ErrMaterialNotFound,
		apperrors.ErrTestNotFound, apperrors.ErrQuestionNotFound, apperrors.ErrAnswerNotFound,
		apperrors.ErrPaymentNotFound, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, err.Error()))
	case errors.Is(err, apperrors.ErrSectionAlreadyPaid):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeSectionAlreadyPaid, "Section is already paid for"))
	case errors.Is(err, apperrors.ErrAlreadyFullyPaid):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeAlreadyFullyPaid, "Payment is already fully settled"))
	case errors.Is(err, apperrors.ErrReferentialRestriction):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeReferentialRestriction, "Record is referenced by existing payments"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, "Email already exists"))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, err.Error()))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeConflict, err.Error()))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeTokenExpired, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeTokenInvalid, "Invalid token"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodePermissionDenied, "Permission denied"))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalError, "Internal server error"))
	}
}
