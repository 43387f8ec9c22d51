package dto

import "time"

// TestResponse is the admin view of a test's metadata.
type TestResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Mode          string    `json:"mode"`
	Level         string    `json:"level"`
	TryAgain      bool      `json:"try_again"`
	ShowTimer     bool      `json:"show_timer"`
	Duration      int       `json:"duration"`
	IsActive      bool      `json:"is_active"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QuestionResponse is the admin view of a question, answer key included.
type QuestionResponse struct {
	ID               uint        `json:"id"`
	TestID           uint        `json:"test_id"`
	Content          string      `json:"content"`
	Type             string      `json:"type"`
	Choices          []ChoiceDTO `json:"choices"`
	CorrectAnswerIDs []int       `json:"correct_answer_ids"`
	AnswerDetails    *string     `json:"answer_details,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

type CandidateQuestionDTO struct {
	ID      uint        `json:"id"`
	Content string      `json:"content"`
	Type    string      `json:"type"`
	Choices []ChoiceDTO `json:"choices"`
}

// CandidateTestDTO is what a candidate sees when opening an invitation. It
// never carries correct answers or explanations.
type CandidateTestDTO struct {
	TestID         uint                   `json:"test_id"`
	Title          string                 `json:"title"`
	Category       string                 `json:"category"`
	Mode           string                 `json:"mode"`
	Level          string                 `json:"level"`
	ShowTimer      bool                   `json:"show_timer"`
	Duration       int                    `json:"duration"`
	TryAgain       bool                   `json:"try_again"`
	CandidateEmail string                 `json:"candidate_email"`
	ExpirationTime time.Time              `json:"expiration_time"`
	Questions      []CandidateQuestionDTO `json:"questions"`
}

type AttemptStartedResponse struct {
	AttemptID uint      `json:"attempt_id"`
	TestID    uint      `json:"test_id"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
}

type QuestionResultDTO struct {
	QuestionID        uint    `json:"question_id"`
	SelectedChoiceIDs []int   `json:"selected_choice_ids"`
	IsCorrect         bool    `json:"is_correct"`
	CorrectAnswerIDs  []int   `json:"correct_answer_ids,omitempty"`
	AnswerDetails     *string `json:"answer_details,omitempty"`
}

type AttemptResultResponse struct {
	AttemptID      uint                `json:"attempt_id"`
	TestID         uint                `json:"test_id"`
	TestTitle      string              `json:"test_title"`
	CandidateEmail string              `json:"candidate_email"`
	Status         string              `json:"status"`
	StartedAt      time.Time           `json:"started_at"`
	SubmittedAt    *time.Time          `json:"submitted_at,omitempty"`
	CorrectCount   int                 `json:"correct_count"`
	QuestionCount  int                 `json:"question_count"`
	ScorePercent   float64             `json:"score_percent"`
	Late           bool                `json:"late"`
	Questions      []QuestionResultDTO `json:"questions,omitempty"`
}
