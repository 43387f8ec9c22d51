package service

import (
	"context"
	"fmt"

	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RecordResponseInput struct {
	QuestionID uint
	QuizTestID uint
	ChoiceID   int
	AttemptID  *uint
}

type ResponseService interface {
	// RecordResponse stores one selected option and returns the row id.
	RecordResponse(ctx context.Context, in RecordResponseInput) (uint, error)
	// Grade loads a question of the test and grades selected against it.
	Grade(ctx context.Context, quizTestID, questionID uint, selected []int) (bool, error)
}

type responseService struct {
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	db           *gorm.DB
}

func NewResponseService(questionRepo repository.QuestionRepository, responseRepo repository.ResponseRepository, db *gorm.DB) ResponseService {
	return &responseService{questionRepo: questionRepo, responseRepo: responseRepo, db: db}
}

// loadTestQuestion fetches a question and checks it belongs to quizTestID.
func loadTestQuestion(ctx context.Context, repo repository.QuestionRepository, quizTestID, questionID uint) (*model.Question, error) {
	q, err := repo.FindByID(ctx, questionID)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("question %d not found", questionID)
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if q.TestID != quizTestID {
		return nil, NewValidationError("question %d does not belong to test %d", questionID, quizTestID)
	}
	return q, nil
}

func hasChoice(q *model.Question, choiceID int) bool {
	for _, o := range q.Choices() {
		if o.ID == choiceID {
			return true
		}
	}
	return false
}

func (s *responseService) RecordResponse(ctx context.Context, in RecordResponseInput) (uint, error) {
	if in.QuestionID == 0 || in.QuizTestID == 0 {
		return 0, NewValidationError("question and test ids are required")
	}
	if in.ChoiceID <= 0 {
		return 0, NewValidationError("choice id %d is not a valid selection", in.ChoiceID)
	}
	q, err := loadTestQuestion(ctx, s.questionRepo, in.QuizTestID, in.QuestionID)
	if err != nil {
		return 0, err
	}
	if !hasChoice(q, in.ChoiceID) {
		return 0, NewValidationError("choice %d is not an option of question %d", in.ChoiceID, in.QuestionID)
	}

	resp := model.Response{
		QuestionID: in.QuestionID,
		QuizTestID: in.QuizTestID,
		ChoiceID:   in.ChoiceID,
		AttemptID:  in.AttemptID,
	}
	// Within an attempt a single choice question holds only the latest selection.
	replace := in.AttemptID != nil && q.Type == model.QuestionTypeSingleChoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.responseRepo.WithTx(tx)
		if replace {
			if err := repo.SupersedeByAttemptAndQuestion(ctx, *in.AttemptID, in.QuestionID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, &resp)
	})
	if err != nil {
		log.Error().Err(err).Uint("questionID", in.QuestionID).Uint("testID", in.QuizTestID).Msg("Failed to record response")
		return 0, fmt.Errorf("failed to record response: %w", err)
	}
	return resp.ID, nil
}

func (s *responseService) Grade(ctx context.Context, quizTestID, questionID uint, selected []int) (bool, error) {
	q, err := loadTestQuestion(ctx, s.questionRepo, quizTestID, questionID)
	if err != nil {
		return false, err
	}
	return Grade(q, selected), nil
}
