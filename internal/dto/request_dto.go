package dto

// RecordResponseRequest stores a single selected option during an attempt.
type RecordResponseRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	ChoiceID   int  `json:"choice_id" binding:"required"`
}

type AnswerDTO struct {
	QuestionID uint  `json:"question_id" binding:"required"`
	ChoiceIDs  []int `json:"choice_ids"`
}

// SubmitAttemptRequest finishes an attempt. Questions missing from Answers
// are graded as incorrect.
type SubmitAttemptRequest struct {
	Answers []AnswerDTO `json:"answers" binding:"dive"`
}
