package models

import "time"

// TestAnswer is a single answer option.
type TestAnswer struct {
	ID     int64  `json:"id" db:"id"`
	Answer string `json:"answer" db:"answer"`
}

// TestQuestion is a question with one correct answer and a set of choices
// that must include it.
type TestQuestion struct {
	ID       int64  `json:"id" db:"id"`
	Question string `json:"question" db:"question"`
	AnswerID int64  `json:"answerId" db:"answer_id"`

	// Relations (populated when needed)
	Answer  *TestAnswer   `json:"answer,omitempty"`
	Choices []*TestAnswer `json:"choices,omitempty"`
	Media   []*Media      `json:"media,omitempty"`
}

// Test is an assessment attached to at most one material.
type Test struct {
	ID         int64  `json:"id" db:"id"`
	MaterialID *int64 `json:"materialId,omitempty" db:"material_id"`

	CreationDate time.Time `json:"creationDate" db:"creation_date"`
	LastUpdate   time.Time `json:"lastUpdate" db:"last_update"`

	// Relations (populated when needed)
	Questions []*TestQuestion `json:"questions,omitempty"`
}
