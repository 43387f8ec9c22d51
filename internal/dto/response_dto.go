package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type IDResponse struct {
	ID uint `json:"id"`
}

type TokenResponse struct {
	ID             uint      `json:"id"`
	Token          string    `json:"token"`
	CandidateEmail string    `json:"candidate_email"`
	TestID         uint      `json:"test_id"`
	ExpirationTime time.Time `json:"expiration_time"`
	IsUsed         bool      `json:"is_used"`
	AttemptID      *uint     `json:"attempt_id,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type InvitationResponse struct {
	TokenID        uint      `json:"token_id"`
	CandidateEmail string    `json:"candidate_email"`
	InvitationLink string    `json:"invitation_link"`
	ExpirationTime time.Time `json:"expiration_time"`
}

type BulkInvitationResult struct {
	CandidateEmail string `json:"candidate_email"`
	Success        bool   `json:"success"`
	InvitationLink string `json:"invitation_link,omitempty"`
	Error          string `json:"error,omitempty"`
}

type BulkInvitationResponse struct {
	Total     int                    `json:"total"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Results   []BulkInvitationResult `json:"results"`
}

type QuestionDraft struct {
	Content          string      `json:"content"`
	Type             string      `json:"type"`
	Choices          []ChoiceDTO `json:"choices"`
	CorrectAnswerIDs []int       `json:"correct_answer_ids"`
	AnswerDetails    *string     `json:"answer_details,omitempty"`
}
