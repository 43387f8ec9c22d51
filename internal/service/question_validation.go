package service

import (
	"strings"
	"unicode/utf8"

	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
)

// validateQuestion checks a question against the rules enforced before it
// can be stored: content length, a known type, at least two options with
// unique positive ids, and a non-empty correct set drawn from those options.
func validateQuestion(content string, qType model.QuestionType, choices []dto.ChoiceDTO, correctIDs []int, answerDetails *string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < model.MinQuestionContentLength || n > model.MaxQuestionContentLength {
		return NewValidationError("question content must be between %d and %d characters", model.MinQuestionContentLength, model.MaxQuestionContentLength)
	}
	if !qType.Valid() {
		return NewValidationError("unknown question type %q", qType)
	}
	if answerDetails != nil && utf8.RuneCountInString(*answerDetails) > model.MaxAnswerDetailsLength {
		return NewValidationError("answer details must be at most %d characters", model.MaxAnswerDetailsLength)
	}
	if len(choices) < 2 {
		return NewValidationError("a question needs at least two choices")
	}

	optionIDs := make(map[int]struct{}, len(choices))
	for _, c := range choices {
		if c.ID <= 0 {
			return NewValidationError("choice id %d is not a valid id", c.ID)
		}
		if strings.TrimSpace(c.Content) == "" {
			return NewValidationError("choice %d has no content", c.ID)
		}
		if _, dup := optionIDs[c.ID]; dup {
			return NewValidationError("duplicate choice id %d", c.ID)
		}
		optionIDs[c.ID] = struct{}{}
	}

	correct := toSet(correctIDs)
	if len(correct) == 0 {
		return NewValidationError("at least one correct answer is required")
	}
	for id := range correct {
		if _, ok := optionIDs[id]; !ok {
			return NewValidationError("correct answer id %d is not one of the choices", id)
		}
	}
	if qType == model.QuestionTypeSingleChoice && len(correct) != 1 {
		return NewValidationError("a single choice question must have exactly one correct answer")
	}
	return nil
}
