package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/quizgate/internal/cache"
	"github.com/lshigami/quizgate/internal/choiceset"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	AddQuestion(ctx context.Context, testID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	// ListQuestions returns the questions of a live test ordered by id.
	ListQuestions(ctx context.Context, testID uint) ([]dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type questionService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	cache        cache.QuestionCache
}

func NewQuestionService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	questionCache cache.QuestionCache,
) QuestionService {
	return &questionService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		cache:        questionCache,
	}
}

func toChoiceDTOs(options []choiceset.Option) []dto.ChoiceDTO {
	out := make([]dto.ChoiceDTO, 0, len(options))
	for _, o := range options {
		out = append(out, dto.ChoiceDTO{ID: o.ID, Content: o.Content})
	}
	return out
}

func toOptions(choices []dto.ChoiceDTO) []choiceset.Option {
	out := make([]choiceset.Option, 0, len(choices))
	for _, c := range choices {
		out = append(out, choiceset.Option{ID: c.ID, Content: strings.TrimSpace(c.Content)})
	}
	return out
}

// decodeChoices reads stored options, logging when the stored text is
// unreadable so a broken row is visible rather than silently empty.
func decodeChoices(q *model.Question) []choiceset.Option {
	res := choiceset.DecodeOptions(q.ChoicesText)
	if res.Status == choiceset.StatusCorrupt {
		log.Warn().Uint("questionID", q.ID).Msg("Stored choices are unreadable, treating as empty")
	}
	return res.Values
}

func decodeCorrectIDs(q *model.Question) []int {
	res := choiceset.DecodeIDs(q.CorrectAnswerIDsText)
	if res.Status == choiceset.StatusCorrupt {
		log.Warn().Uint("questionID", q.ID).Msg("Stored answer key is unreadable, treating as empty")
	}
	return res.Values
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:               q.ID,
		TestID:           q.TestID,
		Content:          q.Content,
		Type:             string(q.Type),
		Choices:          toChoiceDTOs(decodeChoices(q)),
		CorrectAnswerIDs: decodeCorrectIDs(q),
		AnswerDetails:    q.AnswerDetails,
		CreatedAt:        q.CreatedAt,
	}
}

func (s *questionService) requireTest(ctx context.Context, testID uint) error {
	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		if isNotFound(err) {
			return NewNotFoundError("test %d not found", testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to load test")
		return fmt.Errorf("failed to load test %d: %w", testID, err)
	}
	return nil
}

func (s *questionService) AddQuestion(ctx context.Context, testID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	qType := model.QuestionType(req.Type)
	if err := validateQuestion(req.Content, qType, req.Choices, req.CorrectAnswerIDs, req.AnswerDetails); err != nil {
		return nil, err
	}
	if err := s.requireTest(ctx, testID); err != nil {
		return nil, err
	}

	question := model.Question{
		TestID:        testID,
		Content:       strings.TrimSpace(req.Content),
		Type:          qType,
		AnswerDetails: req.AnswerDetails,
	}
	question.SetChoices(toOptions(req.Choices))
	question.SetCorrectAnswerIDs(sortedUnique(req.CorrectAnswerIDs))

	if err := s.questionRepo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to add question to test")
		return nil, fmt.Errorf("failed to add question to test %d: %w", testID, err)
	}
	s.cache.Invalidate(ctx, testID)

	resp := toQuestionResponse(&question)
	return &resp, nil
}

func (s *questionService) ListQuestions(ctx context.Context, testID uint) ([]dto.QuestionResponse, error) {
	if err := s.requireTest(ctx, testID); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(ctx, testID); ok {
		return cached, nil
	}

	questions, err := s.questionRepo.FindByTestID(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to list questions")
		return nil, fmt.Errorf("failed to list questions of test %d: %w", testID, err)
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	s.cache.Set(ctx, testID, resp)
	return resp, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("question %d not found", id)
		}
		return nil, fmt.Errorf("failed to load question %d: %w", id, err)
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

// DeleteQuestion refuses to remove a question that already has recorded
// responses, since grading of those responses depends on it.
func (s *questionService) DeleteQuestion(ctx context.Context, id uint) error {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return NewNotFoundError("question %d not found", id)
		}
		return fmt.Errorf("failed to load question %d: %w", id, err)
	}
	n, err := s.responseRepo.CountByQuestionID(ctx, id)
	if err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to count responses")
		return fmt.Errorf("failed to count responses for question %d: %w", id, err)
	}
	if n > 0 {
		return NewForbiddenError("question %d already has %d responses and cannot be deleted", id, n)
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to delete question")
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, q.TestID)
	return nil
}
