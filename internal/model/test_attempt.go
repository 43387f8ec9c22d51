package model

import "time"

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
)

type TestAttempt struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	TestID         uint       `json:"test_id" gorm:"not null;index"`
	Test           Test       `json:"test,omitempty" gorm:"foreignKey:TestID"`
	AccessTokenID  uint       `json:"access_token_id" gorm:"not null;index"`
	CandidateEmail string     `json:"candidate_email" gorm:"size:320;not null;index"`
	Status         string     `json:"status" gorm:"size:32;not null;default:'in_progress'"`
	StartedAt      time.Time  `json:"started_at" gorm:"not null"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CorrectCount   int        `json:"correct_count"`
	QuestionCount  int        `json:"question_count"`
	ScorePercent   float64    `json:"score_percent"`
	Late           bool       `json:"late" gorm:"not null;default:false"`
	Responses      []Response `json:"responses,omitempty" gorm:"foreignKey:AttemptID"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Deadline is when the attempt's time allowance runs out.
func (a *TestAttempt) Deadline(durationMinutes int) time.Time {
	return a.StartedAt.Add(time.Duration(durationMinutes) * time.Minute)
}

// SubmittedLate reports whether a submission at the given time falls after the
// deadline. A zero duration means the test is untimed.
func (a *TestAttempt) SubmittedLate(durationMinutes int, at time.Time) bool {
	return durationMinutes > 0 && at.After(a.Deadline(durationMinutes))
}
