package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/app/services"
	"github.com/avolkov/lms-backend/internal/middleware"
	"github.com/avolkov/lms-backend/internal/pkg/helpers"
)

// SectionController handles section catalog and purchase endpoints.
type SectionController struct {
	sectionService  services.SectionService
	materialService services.MaterialService
	paymentService  services.PaymentService
}

// NewSectionController creates a new SectionController.
func NewSectionController(
	sectionService services.SectionService,
	materialService services.MaterialService,
	paymentService services.PaymentService,
) *SectionController {
	return &SectionController{
		sectionService:  sectionService,
		materialService: materialService,
		paymentService:  paymentService,
	}
}

func toSectionResponse(section *models.Section) dto.SectionResponse {
	names, links := mediaNamesAndLinks(section.Media)
	resp := dto.SectionResponse{
		ID:            section.ID,
		Name:          section.Name,
		Description:   section.Description,
		Status:        string(section.Status),
		CreationDate:  section.CreationDate,
		LastUpdate:    section.LastUpdate,
		BasePrice:     section.BasePrice,
		PriceCurrency: section.PriceCurrency,
		MediaNames:    names,
		MediaLinks:    links,
	}
	for _, material := range section.Materials {
		resp.Materials = append(resp.Materials, toMaterialResponse(material))
	}
	return resp
}

// GetAllSections godoc
// @Summary List sections
// @Tags sections
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /sections [get]
func (ctrl *SectionController) GetAllSections(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)

	sections, total, err := ctrl.sectionService.GetAllSections(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	responses := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, toSectionResponse(section))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// GetSection godoc
// @Summary Get a section with its materials and media
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id} [get]
func (ctrl *SectionController) GetSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	section, err := ctrl.sectionService.GetSectionByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toSectionResponse(section)))
}

// CreateSection godoc
// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Param request body dto.CreateSectionRequest true "Section data"
// @Success 201 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections [post]
func (ctrl *SectionController) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	section := &models.Section{
		Name:          req.Name,
		Description:   req.Description,
		Status:        models.Status(req.Status),
		BasePrice:     req.BasePrice,
		PriceCurrency: req.PriceCurrency,
	}

	created, err := ctrl.sectionService.CreateSection(c.Request.Context(), section, req.MediaIDs)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toSectionResponse(created)))
}

// UpdateSection godoc
// @Summary Update a section
// @Description Applies changed fields. Archiving or closing does not touch attached materials; their ids are reported in outOfSyncMaterials instead.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param request body dto.UpdateSectionRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateSectionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections/{id} [put]
func (ctrl *SectionController) UpdateSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	section, err := ctrl.sectionService.GetSectionByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	applyStringPtr(&section.Name, req.Name)
	applyStringPtr(&section.Description, req.Description)
	if req.Status != nil {
		section.Status = models.Status(*req.Status)
	}
	if req.BasePrice != nil {
		section.BasePrice = *req.BasePrice
	}
	applyStringPtr(&section.PriceCurrency, req.PriceCurrency)

	updated, outOfSync, err := ctrl.sectionService.UpdateSection(c.Request.Context(), section)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UpdateSectionResponse{
		Section:            toSectionResponse(updated),
		OutOfSyncMaterials: outOfSync,
	}))
}

// DeleteSection godoc
// @Summary Delete a section
// @Description Deletes a section, detaching its materials. A section cited by the payment ledger cannot be deleted.
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections/{id} [delete]
func (ctrl *SectionController) DeleteSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.sectionService.DeleteSection(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSectionMaterials godoc
// @Summary List the materials of a section
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MaterialResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id}/materials [get]
func (ctrl *SectionController) GetSectionMaterials(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	materials, err := ctrl.materialService.GetMaterialsBySection(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, toMaterialResponse(material))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// AttachMedia godoc
// @Summary Attach a media record to a section
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Param mediaId path int true "Media ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections/{id}/media/{mediaId} [post]
func (ctrl *SectionController) AttachMedia(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(c, "mediaId")
	if !ok {
		return
	}

	if err := ctrl.sectionService.AttachMedia(c.Request.Context(), sectionID, mediaID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachMedia godoc
// @Summary Detach a media record from a section
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Param mediaId path int true "Media ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections/{id}/media/{mediaId} [delete]
func (ctrl *SectionController) DetachMedia(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(c, "mediaId")
	if !ok {
		return
	}

	if err := ctrl.sectionService.DetachMedia(c.Request.Context(), sectionID, mediaID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PaySection godoc
// @Summary Purchase a section
// @Description Validates the card, charges the payment gateway once and records the ledger entry. For SHARE_30D4P the charge is the first of four installments.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param request body dto.PaySectionRequest true "Card data and plan"
// @Success 201 {object} dto.APIResponse{data=dto.PaySectionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Security BearerAuth
// @Router /sections/{id}/pay [post]
func (ctrl *SectionController) PaySection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return
	}

	var req dto.PaySectionRequest
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

	payment, reference, err := ctrl.paymentService.PaySection(
		c.Request.Context(), userID, sectionID, models.PaymentType(req.PaymentType), card)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.PaySectionResponse{
		Payment:   toPaymentResponse(payment),
		Reference: reference,
	}))
}
