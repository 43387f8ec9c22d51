package dto

// ChoiceDTO is one answer option as authored by an admin.
type ChoiceDTO struct {
	ID      int    `json:"id" binding:"required,gt=0"`
	Content string `json:"content" binding:"required"`
}

// CreateTestRequest carries test metadata. Questions are added separately.
type CreateTestRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Category  string `json:"category" binding:"required,oneof=general technical aptitude language"`
	Mode      string `json:"mode" binding:"required,oneof=practice exam"`
	Level     string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	TryAgain  bool   `json:"try_again"`
	ShowTimer bool   `json:"show_timer"`
	Duration  int    `json:"duration" binding:"required,gt=0"` // minutes
	IsActive  bool   `json:"is_active"`
}

type UpdateTestRequest = CreateTestRequest

type CreateQuestionRequest struct {
	Content          string      `json:"content" binding:"required,min=10,max=1000"`
	Type             string      `json:"type" binding:"required,oneof=single_choice multi_choice"`
	Choices          []ChoiceDTO `json:"choices" binding:"required,min=2,dive"`
	CorrectAnswerIDs []int       `json:"correct_answer_ids" binding:"required,min=1"`
	AnswerDetails    *string     `json:"answer_details" binding:"omitempty,max=2000"`
}

type IssueTokenRequest struct {
	CandidateEmail  string `json:"candidate_email" binding:"required,email"`
	ExpirationHours int    `json:"expiration_hours" binding:"required,gt=0"`
}

type InvitationRequest struct {
	TestID          uint   `json:"test_id" binding:"required,gt=0"`
	CandidateEmail  string `json:"candidate_email" binding:"required,email"`
	CandidateName   string `json:"candidate_name" binding:"required,max=100"`
	ExpirationHours int    `json:"expiration_hours"` // 0 means the configured default
}

type CandidateDTO struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=100"`
}

type BulkInvitationRequest struct {
	TestID          uint           `json:"test_id" binding:"required,gt=0"`
	ExpirationHours int            `json:"expiration_hours"`
	Candidates      []CandidateDTO `json:"candidates" binding:"required,min=1,max=100,dive"`
}

type GenerateQuestionsRequest struct {
	Topic string `json:"topic" binding:"required,max=200"`
	Type  string `json:"type" binding:"required,oneof=single_choice multi_choice"`
	Level string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Count int    `json:"count" binding:"required,min=1,max=10"`
}
