package model

import (
	"time"

	"gorm.io/gorm"
)

// Response is one selected option for one question. A multi-select answer is
// stored as several rows sharing QuestionID and AttemptID. Rows are never
// removed: a superseded selection is soft-deleted and stays on record.
type Response struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	QuizTestID uint           `json:"quiz_test_id" gorm:"not null;index"`
	ChoiceID   int            `json:"choice_id" gorm:"not null"`
	AttemptID  *uint          `json:"attempt_id,omitempty" gorm:"index"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
