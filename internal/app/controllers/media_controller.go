package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/app/services"
	"github.com/avolkov/lms-backend/internal/middleware"
	"github.com/avolkov/lms-backend/internal/pkg/filestorage"
	"github.com/avolkov/lms-backend/internal/pkg/helpers"
)

// MediaController handles media endpoints.
type MediaController struct {
	mediaService services.MediaService
	storage      *filestorage.LocalStorage
}

// NewMediaController creates a new MediaController.
func NewMediaController(mediaService services.MediaService, storage *filestorage.LocalStorage) *MediaController {
	return &MediaController{
		mediaService: mediaService,
		storage:      storage,
	}
}

func toMediaResponse(media *models.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:            media.ID,
		Name:          media.Name,
		LocalImage:    media.LocalImage,
		ExternalImage: media.ExternalImage,
		LocalVideo:    media.LocalVideo,
		ExternalVideo: media.ExternalVideo,
		LocalAudio:    media.LocalAudio,
		ExternalAudio: media.ExternalAudio,
	}
}

func mediaNamesAndLinks(media []*models.Media) (names, links []string) {
	for _, m := range media {
		names = append(names, m.Name)
		links = append(links, m.Link())
	}
	return names, links
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidFormat, "Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// CreateMedia godoc
// @Summary Create a media record
// @Description Creates a media record. Exactly one reference slot must be set.
// @Tags media
// @Accept json
// @Produce json
// @Param request body dto.CreateMediaRequest true "Media data"
// @Success 201 {object} dto.APIResponse{data=dto.MediaResponse}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /media [post]
func (ctrl *MediaController) CreateMedia(c *gin.Context) {
	var req dto.CreateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	media := &models.Media{
		Name:          req.Name,
		LocalImage:    req.LocalImage,
		ExternalImage: req.ExternalImage,
		LocalVideo:    req.LocalVideo,
		ExternalVideo: req.ExternalVideo,
		LocalAudio:    req.LocalAudio,
		ExternalAudio: req.ExternalAudio,
	}

	created, err := ctrl.mediaService.CreateMedia(c.Request.Context(), media)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toMediaResponse(created)))
}

// GetMedia godoc
// @Summary Get a media record
// @Tags media
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} dto.APIResponse{data=dto.MediaResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /media/{id} [get]
func (ctrl *MediaController) GetMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	media, err := ctrl.mediaService.GetMediaByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toMediaResponse(media)))
}

// GetAllMedia godoc
// @Summary List media records
// @Tags media
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /media [get]
func (ctrl *MediaController) GetAllMedia(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)

	items, total, err := ctrl.mediaService.GetAllMedia(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	responses := make([]dto.MediaResponse, 0, len(items))
	for _, media := range items {
		responses = append(responses, toMediaResponse(media))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateMedia godoc
// @Summary Update a media record
// @Description Applies changed fields. The single-reference rule is re-checked on the merged record.
// @Tags media
// @Accept json
// @Produce json
// @Param id path int true "Media ID"
// @Param request body dto.UpdateMediaRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.MediaResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /media/{id} [put]
func (ctrl *MediaController) UpdateMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	media, err := ctrl.mediaService.GetMediaByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	applyStringPtr(&media.Name, req.Name)
	applyStringPtr(&media.LocalImage, req.LocalImage)
	applyStringPtr(&media.ExternalImage, req.ExternalImage)
	applyStringPtr(&media.LocalVideo, req.LocalVideo)
	applyStringPtr(&media.ExternalVideo, req.ExternalVideo)
	applyStringPtr(&media.LocalAudio, req.LocalAudio)
	applyStringPtr(&media.ExternalAudio, req.ExternalAudio)

	updated, err := ctrl.mediaService.UpdateMedia(c.Request.Context(), media)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toMediaResponse(updated)))
}

// DeleteMedia godoc
// @Summary Delete a media record
// @Tags media
// @Produce json
// @Param id path int true "Media ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /media/{id} [delete]
func (ctrl *MediaController) DeleteMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.mediaService.DeleteMedia(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadMedia godoc
// @Summary Upload a media file
// @Description Stores the file and returns the path to use as the localImage, localVideo or localAudio reference of a media record.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to store"
// @Param kind formData string true "image, video or audio"
// @Success 201 {object} dto.APIResponse{data=dto.MediaUploadResponse}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /media/upload [post]
func (ctrl *MediaController) UploadMedia(c *gin.Context) {
	kind := c.PostForm("kind")
	if !filestorage.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "kind must be image, video or audio"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "file is required"))
		return
	}

	path, err := ctrl.storage.Save(fileHeader, kind)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.MediaUploadResponse{Path: path}))
}

func applyStringPtr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
