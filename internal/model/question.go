package model

import (
	"time"

	"github.com/lshigami/quizgate/internal/choiceset"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
)

func (t QuestionType) Valid() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultiChoice
}

const (
	MinQuestionContentLength = 10
	MaxQuestionContentLength = 1000
	MaxAnswerDetailsLength   = 2000
)

type Question struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	TestID               uint           `json:"test_id" gorm:"not null;index"`
	Content              string         `json:"content" gorm:"type:text;not null"`
	Type                 QuestionType   `json:"type" gorm:"size:32;not null"`
	AnswerDetails        *string        `json:"answer_details,omitempty" gorm:"type:text"`
	ChoicesText          string         `json:"-" gorm:"column:choices;type:text;not null;default:'[]'"`
	CorrectAnswerIDsText string         `json:"-" gorm:"column:correct_answer_ids;type:text;not null;default:'[]'"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) Choices() []choiceset.Option {
	return choiceset.Decode(q.ChoicesText)
}

func (q *Question) CorrectAnswerIDs() []int {
	return choiceset.DecodeAnswerIDs(q.CorrectAnswerIDsText)
}

func (q *Question) SetChoices(options []choiceset.Option) {
	q.ChoicesText = choiceset.Encode(options)
}

func (q *Question) SetCorrectAnswerIDs(ids []int) {
	q.CorrectAnswerIDsText = choiceset.EncodeAnswerIDs(ids)
}
