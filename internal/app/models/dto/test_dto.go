package dto

import "time"

// TestAnswerResponse is a single answer option.
type TestAnswerResponse struct {
	ID     int64  `json:"id"`
	Answer string `json:"answer"`
}

// TestQuestionResponse is a question with its shuffled choice list. The
// correct answer id is never included.
type TestQuestionResponse struct {
	ID       int64                `json:"id"`
	Question string               `json:"question"`
	Choices  []TestAnswerResponse `json:"choices"`

	MediaNames []string `json:"mediaNames,omitempty"`
	MediaLinks []string `json:"mediaLinks,omitempty"`
}

// TestResponse is a test with its question set, as served when a user
// starts the test for a material.
type TestResponse struct {
	ID           int64                  `json:"id"`
	MaterialID   *int64                 `json:"materialId,omitempty"`
	CreationDate time.Time              `json:"creationDate"`
	LastUpdate   time.Time              `json:"lastUpdate"`
	Questions    []TestQuestionResponse `json:"questions"`
}

// CreateTestRequest attaches a new test to a material with an initial
// question set.
type CreateTestRequest struct {
	MaterialID  *int64  `json:"materialId" binding:"omitempty,gt=0"`
	QuestionIDs []int64 `json:"questionIds" binding:"omitempty,dive,gt=0"`
}

// CreateTestQuestionRequest carries a new question. AnswerID must be a
// member of ChoiceIDs.
type CreateTestQuestionRequest struct {
	Question  string  `json:"question" binding:"required"`
	AnswerID  int64   `json:"answerId" binding:"required,gt=0"`
	ChoiceIDs []int64 `json:"choiceIds" binding:"required,min=2,dive,gt=0"`
	MediaIDs  []int64 `json:"mediaIds" binding:"omitempty,dive,gt=0"`
}

// CreateTestAnswerRequest carries a new answer option.
type CreateTestAnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=500"`
}
