package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/copier"
	"github.com/lshigami/quizgate/internal/cache"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TestService interface {
	CreateTest(ctx context.Context, req dto.CreateTestRequest) (*dto.TestResponse, error)
	GetTest(ctx context.Context, id uint) (*dto.TestResponse, error)
	ListTests(ctx context.Context) ([]dto.TestResponse, error)
	UpdateTest(ctx context.Context, id uint, req dto.UpdateTestRequest) (*dto.TestResponse, error)
	ToggleActive(ctx context.Context, id uint) (*dto.TestResponse, error)
	// DeleteTest removes an inactive test together with its questions.
	// Active tests are refused so in-flight candidates keep a valid test.
	DeleteTest(ctx context.Context, id uint) error
}

type testService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	cache        cache.QuestionCache
	db           *gorm.DB // For transactions
}

func NewTestService(testRepo repository.TestRepository, questionRepo repository.QuestionRepository, questionCache cache.QuestionCache, db *gorm.DB) TestService {
	return &testService{testRepo: testRepo, questionRepo: questionRepo, cache: questionCache, db: db}
}

func validateTestRequest(req dto.CreateTestRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return NewValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > model.MaxTestTitleLength {
		return NewValidationError("title must be at most %d characters", model.MaxTestTitleLength)
	}
	if !model.Category(req.Category).Valid() {
		return NewValidationError("unknown category %q", req.Category)
	}
	if !model.Mode(req.Mode).Valid() {
		return NewValidationError("unknown mode %q", req.Mode)
	}
	if !model.Level(req.Level).Valid() {
		return NewValidationError("unknown level %q", req.Level)
	}
	if req.Duration <= 0 {
		return NewValidationError("duration must be a positive number of minutes")
	}
	return nil
}

func applyTestRequest(test *model.Test, req dto.CreateTestRequest) {
	test.Title = strings.TrimSpace(req.Title)
	test.Category = model.Category(req.Category)
	test.Mode = model.Mode(req.Mode)
	test.Level = model.Level(req.Level)
	test.TryAgain = req.TryAgain
	test.ShowTimer = req.ShowTimer
	test.Duration = req.Duration
	test.IsActive = req.IsActive
}

func toTestResponse(test *model.Test, questionCount int) *dto.TestResponse {
	var resp dto.TestResponse
	copier.Copy(&resp, test)
	resp.QuestionCount = questionCount
	return &resp
}

func (s *testService) CreateTest(ctx context.Context, req dto.CreateTestRequest) (*dto.TestResponse, error) {
	if err := validateTestRequest(req); err != nil {
		return nil, err
	}
	var test model.Test
	applyTestRequest(&test, req)
	if err := s.testRepo.Create(ctx, &test); err != nil {
		log.Error().Err(err).Str("title", test.Title).Msg("Failed to create test")
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Msg("Test created")
	return toTestResponse(&test, 0), nil
}

func (s *testService) findTest(ctx context.Context, id uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("test %d not found", id)
		}
		log.Error().Err(err).Uint("testID", id).Msg("Failed to load test")
		return nil, fmt.Errorf("failed to load test %d: %w", id, err)
	}
	return test, nil
}

func (s *testService) questionCount(ctx context.Context, testID uint) int {
	questions, err := s.questionRepo.FindByTestID(ctx, testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Failed to count questions")
		return 0
	}
	return len(questions)
}

func (s *testService) GetTest(ctx context.Context, id uint) (*dto.TestResponse, error) {
	test, err := s.findTest(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTestResponse(test, s.questionCount(ctx, id)), nil
}

func (s *testService) ListTests(ctx context.Context) ([]dto.TestResponse, error) {
	rows, err := s.testRepo.FindAllWithQuestionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tests")
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	resp := make([]dto.TestResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, *toTestResponse(&rows[i].Test, rows[i].QuestionCount))
	}
	return resp, nil
}

func (s *testService) UpdateTest(ctx context.Context, id uint, req dto.UpdateTestRequest) (*dto.TestResponse, error) {
	if err := validateTestRequest(req); err != nil {
		return nil, err
	}
	test, err := s.findTest(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTestRequest(test, req)
	if err := s.testRepo.Update(ctx, test); err != nil {
		log.Error().Err(err).Uint("testID", id).Msg("Failed to update test")
		return nil, fmt.Errorf("failed to update test %d: %w", id, err)
	}
	return toTestResponse(test, s.questionCount(ctx, id)), nil
}

func (s *testService) ToggleActive(ctx context.Context, id uint) (*dto.TestResponse, error) {
	test, err := s.findTest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.testRepo.SetActive(ctx, id, !test.IsActive); err != nil {
		log.Error().Err(err).Uint("testID", id).Msg("Failed to toggle test status")
		return nil, fmt.Errorf("failed to toggle test %d: %w", id, err)
	}
	test.IsActive = !test.IsActive
	log.Info().Uint("testID", id).Bool("isActive", test.IsActive).Msg("Test status toggled")
	return toTestResponse(test, s.questionCount(ctx, id)), nil
}

func (s *testService) DeleteTest(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		testRepo := s.testRepo.WithTx(tx)
		test, err := testRepo.FindByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return NewNotFoundError("test %d not found", id)
			}
			return fmt.Errorf("failed to load test %d: %w", id, err)
		}
		if test.IsActive {
			return NewForbiddenError("test %d is active; deactivate the test before deleting it", id)
		}
		// Tokens, attempts and responses are kept for audit.
		if err := s.questionRepo.WithTx(tx).DeleteByTestID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete questions of test %d: %w", id, err)
		}
		if err := testRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete test %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsServiceError(err); !ok {
			log.Error().Err(err).Uint("testID", id).Msg("DeleteTest transaction failed")
		}
		return err
	}
	s.cache.Invalidate(ctx, id)
	log.Info().Uint("testID", id).Msg("Test deleted")
	return nil
}
