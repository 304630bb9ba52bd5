package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/app/services"
	"github.com/avolkov/lms-backend/internal/middleware"
)

// PaymentController handles the payment ledger endpoints. Purchasing a
// section lives on SectionController; everything operating on an existing
// ledger entry lives here.
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

func toPaymentResponse(payment *models.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:              payment.ID,
		PaymentType:     string(payment.PaymentType),
		PaymentMethod:   string(payment.PaymentMethod),
		PaymentsLeft:    payment.PaymentsLeft,
		LastPaymentDate: payment.LastPaymentDate,
		FullyPaid:       payment.FullyPaid(),
	}
	if payment.User != nil {
		resp.User = payment.User.DisplayName()
	}
	if payment.PaidSection != nil {
		resp.PaidSection = payment.PaidSection.Name
	}
	return resp
}

// GetMyPayments godoc
// @Summary List the authenticated user's ledger entries
// @Tags payments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentResponse}
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /payments [get]
func (ctrl *PaymentController) GetMyPayments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	payments, err := ctrl.paymentService.GetUserPayments(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, toPaymentResponse(payment))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// GetPayment godoc
// @Summary Get one of the authenticated user's ledger entries
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /payments/{id} [get]
func (ctrl *PaymentController) GetPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	payment, err := ctrl.paymentService.GetPayment(c.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toPaymentResponse(payment)))
}

// PayInstallment godoc
// @Summary Pay the next installment on a SHARE_30D4P ledger entry
// @Description Validates the card, charges one quarter of the section's base price and decrements the remaining installment count.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body dto.PayInstallmentRequest true "Card data"
// @Success 200 {object} dto.APIResponse{data=dto.PaySectionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Security BearerAuth
// @Router /payments/{id}/installments [post]
func (ctrl *PaymentController) PayInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	var req dto.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	card := models.CardData{
		CardNumber:      req.CardNumber,
		OwnerName:       req.OwnerName,
		ExpirationMonth: req.ExpirationMonth,
		ExpirationYear:  req.ExpirationYear,
		CVC:             req.CVC,
	}

	payment, reference, err := ctrl.paymentService.PayInstallment(c.Request.Context(), userID, id, card)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaySectionResponse{
		Payment:   toPaymentResponse(payment),
		Reference: reference,
	}))
}
