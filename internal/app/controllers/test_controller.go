package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/app/services"
	"github.com/avolkov/lms-backend/internal/middleware"
)

// TestController handles test, question and answer endpoints.
type TestController struct {
	testService services.TestService
}

// NewTestController creates a new TestController.
func NewTestController(testService services.TestService) *TestController {
	return &TestController{
		testService: testService,
	}
}

func toTestResponse(test *models.Test) dto.TestResponse {
	resp := dto.TestResponse{
		ID:           test.ID,
		MaterialID:   test.MaterialID,
		CreationDate: test.CreationDate,
		LastUpdate:   test.LastUpdate,
	}
	for _, question := range test.Questions {
		q := dto.TestQuestionResponse{
			ID:       question.ID,
			Question: question.Question,
		}
		for _, choice := range question.Choices {
			q.Choices = append(q.Choices, dto.TestAnswerResponse{
				ID:     choice.ID,
				Answer: choice.Answer,
			})
		}
		q.MediaNames, q.MediaLinks = mediaNamesAndLinks(question.Media)
		resp.Questions = append(resp.Questions, q)
	}
	return resp
}

// CreateTest godoc
// @Summary Create a test
// @Description Creates a test, optionally attached to a material and seeded with existing questions. A material can hold at most one test.
// @Tags tests
// @Accept json
// @Produce json
// @Param request body dto.CreateTestRequest true "Test data"
// @Success 201 {object} dto.APIResponse{data=dto.TestResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Security BearerAuth
// @Router /tests [post]
func (ctrl *TestController) CreateTest(c *gin.Context) {
	var req dto.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	test, err := ctrl.testService.CreateTest(c.Request.Context(), req.MaterialID, req.QuestionIDs)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toTestResponse(test)))
}

// GetTest godoc
// @Summary Get a test with its questions
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.APIResponse{data=dto.TestResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /tests/{id} [get]
func (ctrl *TestController) GetTest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	test, err := ctrl.testService.GetTestByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toTestResponse(test)))
}

// DeleteTest godoc
// @Summary Delete a test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /tests/{id} [delete]
func (ctrl *TestController) DeleteTest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.testService.DeleteTest(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary Add an existing question to a test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Param questionId path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /tests/{id}/questions/{questionId} [post]
func (ctrl *TestController) AddQuestion(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := ctrl.testService.AddQuestion(c.Request.Context(), testID, questionID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveQuestion godoc
// @Summary Remove a question from a test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Param questionId path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /tests/{id}/questions/{questionId} [delete]
func (ctrl *TestController) RemoveQuestion(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := ctrl.testService.RemoveQuestion(c.Request.Context(), testID, questionID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateAnswer godoc
// @Summary Create an answer option
// @Tags tests
// @Accept json
// @Produce json
// @Param request body dto.CreateTestAnswerRequest true "Answer data"
// @Success 201 {object} dto.APIResponse{data=dto.TestAnswerResponse}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /answers [post]
func (ctrl *TestController) CreateAnswer(c *gin.Context) {
	var req dto.CreateTestAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	answer, err := ctrl.testService.CreateAnswer(c.Request.Context(), req.Answer)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.TestAnswerResponse{
		ID:     answer.ID,
		Answer: answer.Answer,
	}))
}

// CreateQuestion godoc
// @Summary Create a question
// @Description Creates a question with its choice set. The correct answer is always included in the choices.
// @Tags tests
// @Accept json
// @Produce json
// @Param request body dto.CreateTestQuestionRequest true "Question data"
// @Success 201 {object} dto.APIResponse{data=dto.TestQuestionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /questions [post]
func (ctrl *TestController) CreateQuestion(c *gin.Context) {
	var req dto.CreateTestQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, err.Error()))
		return
	}

	question, err := ctrl.testService.CreateQuestion(
		c.Request.Context(), req.Question, req.AnswerID, req.ChoiceIDs, req.MediaIDs)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp := dto.TestQuestionResponse{
		ID:       question.ID,
		Question: question.Question,
	}
	for _, choice := range question.Choices {
		resp.Choices = append(resp.Choices, dto.TestAnswerResponse{
			ID:     choice.ID,
			Answer: choice.Answer,
		})
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// StartTest godoc
// @Summary Start the test attached to a material
// @Description Serves the question set with each question's choices in a fresh random order. Correct answer ids are not revealed.
// @Tags tests
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse{data=dto.TestResponse}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /materials/{id}/test/start [get]
func (ctrl *TestController) StartTest(c *gin.Context) {
	materialID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	test, err := ctrl.testService.StartTest(c.Request.Context(), materialID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(toTestResponse(test)))
}
