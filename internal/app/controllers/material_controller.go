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

// MaterialController handles material endpoints.
type MaterialController struct {
	materialService services.MaterialService
}

// NewMaterialController creates a new MaterialController.
func NewMaterialController(materialService services.MaterialService) *MaterialController {
	return &MaterialController{
		materialService: materialService,
	}
}

func toMaterialResponse(material *models.Material) dto.MaterialResponse {
	names, links := mediaNamesAndLinks(material.Media)
	return dto.MaterialResponse{
		ID:           material.ID,
		Name:         material.Name,
		Text:         material.Text,
		Status:       string(material.Status),
		CreationDate: material.CreationDate,
		LastUpdate:   material.LastUpdate,
		SectionID:    material.SectionID,
		MediaNames:   names,
		MediaLinks:   links,
	}
}

// GetAllMaterials godoc
// @Summary List materials
// @Tags materials
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /materials [get]
func (ctrl *MaterialController) GetAllMaterials(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)

	materials, total, err := ctrl.materialService.GetAllMaterials(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, toMaterialResponse(material))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// GetMaterial godoc
// @Summary Get a material with its media
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /materials/{id} [get]
func (ctrl *MaterialController) GetMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := ctrl.materialService.GetMaterialByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toMaterialResponse(material)))
}

// CreateMaterial godoc
// @Summary Create a material
// @Description Creates a material. When attached to a section its status must agree with an archived or closed parent.
// @Tags materials
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequest true "Material data"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials [post]
func (ctrl *MaterialController) CreateMaterial(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	material := &models.Material{
		Name:      req.Name,
		Text:      req.Text,
		Status:    models.Status(req.Status),
		SectionID: req.SectionID,
	}

	created, err := ctrl.materialService.CreateMaterial(c.Request.Context(), material, req.MediaIDs)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toMaterialResponse(created)))
}

// UpdateMaterial godoc
// @Summary Update a material
// @Description Applies changed fields. Setting setSection with a null sectionId detaches the material from its section.
// @Tags materials
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials/{id} [put]
func (ctrl *MaterialController) UpdateMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	material, err := ctrl.materialService.GetMaterialByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	applyStringPtr(&material.Name, req.Name)
	applyStringPtr(&material.Text, req.Text)
	if req.Status != nil {
		material.Status = models.Status(*req.Status)
	}
	if req.SetSection {
		material.SectionID = req.SectionID
	}

	updated, err := ctrl.materialService.UpdateMaterial(c.Request.Context(), material)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toMaterialResponse(updated)))
}

// DeleteMaterial godoc
// @Summary Delete a material
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials/{id} [delete]
func (ctrl *MaterialController) DeleteMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.materialService.DeleteMaterial(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AttachMedia godoc
// @Summary Attach a media record to a material
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Param mediaId path int true "Media ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials/{id}/media/{mediaId} [post]
func (ctrl *MaterialController) AttachMedia(c *gin.Context) {
	materialID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(c, "mediaId")
	if !ok {
		return
	}

	if err := ctrl.materialService.AttachMedia(c.Request.Context(), materialID, mediaID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachMedia godoc
// @Summary Detach a media record from a material
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Param mediaId path int true "Media ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials/{id}/media/{mediaId} [delete]
func (ctrl *MaterialController) DetachMedia(c *gin.Context) {
	materialID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(c, "mediaId")
	if !ok {
		return
	}

	if err := ctrl.materialService.DetachMedia(c.Request.Context(), materialID, mediaID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
