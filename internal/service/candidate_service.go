package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CandidateService drives a candidate from an invitation link to a graded
// attempt. Token problems are all reported as ErrUnavailable so the link
// endpoint reveals nothing about which tokens exist.
//
// After StartAttempt the token keeps identifying the candidate: the attempt
// it was redeemed for is only reachable through that token.
type CandidateService interface {
	OpenInvitation(ctx context.Context, token string) (*dto.CandidateTestDTO, error)
	StartAttempt(ctx context.Context, token string) (*dto.AttemptStartedResponse, error)
	RecordAnswer(ctx context.Context, token string, req dto.RecordResponseRequest) (uint, error)
	SubmitAttempt(ctx context.Context, token string, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error)
	GetAttemptResult(ctx context.Context, token string) (*dto.AttemptResultResponse, error)
	// ListAttempts summarises every attempt of a test, newest first, for admins.
	ListAttempts(ctx context.Context, testID uint) ([]dto.AttemptResultResponse, error)
}

type candidateService struct {
	testRepo        repository.TestRepository
	questionRepo    repository.QuestionRepository
	tokenRepo       repository.AccessTokenRepository
	testAttemptRepo repository.TestAttemptRepository
	responseRepo    repository.ResponseRepository
	responses       ResponseService
	db              *gorm.DB // Used for transactions within service methods
	now             func() time.Time
}

func NewCandidateService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	tokenRepo repository.AccessTokenRepository,
	testAttemptRepo repository.TestAttemptRepository,
	responseRepo repository.ResponseRepository,
	responses ResponseService,
	db *gorm.DB,
) CandidateService {
	return newCandidateService(testRepo, questionRepo, tokenRepo, testAttemptRepo, responseRepo, responses, db, time.Now)
}

func newCandidateService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	tokenRepo repository.AccessTokenRepository,
	testAttemptRepo repository.TestAttemptRepository,
	responseRepo repository.ResponseRepository,
	responses ResponseService,
	db *gorm.DB,
	now func() time.Time,
) *candidateService {
	return &candidateService{
		testRepo:        testRepo,
		questionRepo:    questionRepo,
		tokenRepo:       tokenRepo,
		testAttemptRepo: testAttemptRepo,
		responseRepo:    responseRepo,
		responses:       responses,
		db:              db,
		now:             func() time.Time { return now().UTC() },
	}
}

// usableToken loads a token and its test, returning ErrUnavailable for
// anything a candidate cannot use right now.
func (s *candidateService) usableToken(ctx context.Context, tokenRepo repository.AccessTokenRepository, testRepo repository.TestRepository, value string, now time.Time) (*model.TestAccessToken, *model.Test, error) {
	token, err := tokenRepo.FindByToken(ctx, strings.TrimSpace(value))
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrUnavailable
		}
		return nil, nil, fmt.Errorf("failed to load token: %w", err)
	}
	if status := token.Status(now); status != model.TokenUnused {
		log.Info().Uint("tokenID", token.ID).Str("status", string(status)).Msg("Rejected candidate token")
		return nil, nil, ErrUnavailable
	}
	test, err := testRepo.FindByID(ctx, token.TestID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrUnavailable
		}
		return nil, nil, fmt.Errorf("failed to load test %d: %w", token.TestID, err)
	}
	if !test.IsActive {
		log.Info().Uint("tokenID", token.ID).Uint("testID", test.ID).Msg("Candidate token points at inactive test")
		return nil, nil, ErrUnavailable
	}
	return token, test, nil
}

func (s *candidateService) OpenInvitation(ctx context.Context, value string) (*dto.CandidateTestDTO, error) {
	token, test, err := s.usableToken(ctx, s.tokenRepo, s.testRepo, value, s.now())
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindByTestID(ctx, test.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to load questions for invitation")
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	resp := &dto.CandidateTestDTO{
		TestID:         test.ID,
		Title:          test.Title,
		Category:       string(test.Category),
		Mode:           string(test.Mode),
		Level:          string(test.Level),
		ShowTimer:      test.ShowTimer,
		Duration:       test.Duration,
		TryAgain:       test.TryAgain,
		CandidateEmail: token.CandidateEmail,
		ExpirationTime: token.ExpirationTime,
		Questions:      make([]dto.CandidateQuestionDTO, 0, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		resp.Questions = append(resp.Questions, dto.CandidateQuestionDTO{
			ID:      q.ID,
			Content: q.Content,
			Type:    string(q.Type),
			Choices: toChoiceDTOs(decodeChoices(q)),
		})
	}
	return resp, nil
}

// StartAttempt creates the attempt and redeems the token in one transaction,
// so a token is never spent without an attempt to show for it.
func (s *candidateService) StartAttempt(ctx context.Context, value string) (*dto.AttemptStartedResponse, error) {
	now := s.now()
	var attempt model.TestAttempt
	var duration int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tokenRepo := s.tokenRepo.WithTx(tx)
		attemptRepo := s.testAttemptRepo.WithTx(tx)
		token, test, err := s.usableToken(ctx, tokenRepo, s.testRepo.WithTx(tx), value, now)
		if err != nil {
			return err
		}
		if !test.TryAgain {
			done, err := attemptRepo.CountCompletedByCandidate(ctx, test.ID, token.CandidateEmail)
			if err != nil {
				return fmt.Errorf("failed to check previous attempts: %w", err)
			}
			if done > 0 {
				log.Info().Uint("tokenID", token.ID).Uint("testID", test.ID).Msg("Retake refused")
				return ErrUnavailable
			}
		}
		attempt = model.TestAttempt{
			TestID:         test.ID,
			AccessTokenID:  token.ID,
			CandidateEmail: token.CandidateEmail,
			Status:         model.AttemptStatusInProgress,
			StartedAt:      now,
		}
		if err := attemptRepo.Create(ctx, &attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		if err := redeemToken(ctx, tokenRepo, token.Token, &attempt.ID, now); err != nil {
			if _, ok := AsServiceError(err); ok {
				log.Info().Err(err).Uint("tokenID", token.ID).Msg("Token redemption lost")
				return ErrUnavailable
			}
			return err
		}
		duration = test.Duration
		return nil
	})
	if err != nil {
		if _, ok := AsServiceError(err); !ok {
			log.Error().Err(err).Msg("StartAttempt transaction failed")
		}
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("testID", attempt.TestID).Msg("Attempt started")
	return &dto.AttemptStartedResponse{
		AttemptID: attempt.ID,
		TestID:    attempt.TestID,
		StartedAt: attempt.StartedAt,
		Deadline:  attempt.Deadline(duration),
	}, nil
}

// tokenAttempt resolves the attempt a token was redeemed for. Unknown tokens,
// tokens that were never redeemed and tokens whose attempt record does not
// point back at them all yield ErrUnavailable.
func (s *candidateService) tokenAttempt(ctx context.Context, tokenRepo repository.AccessTokenRepository, attemptRepo repository.TestAttemptRepository, value string) (*model.TestAttempt, error) {
	token, err := tokenRepo.FindByToken(ctx, strings.TrimSpace(value))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if token.AttemptID == nil {
		return nil, ErrUnavailable
	}
	attempt, err := attemptRepo.FindByID(ctx, *token.AttemptID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("failed to load attempt %d: %w", *token.AttemptID, err)
	}
	if attempt.AccessTokenID != token.ID {
		log.Warn().Uint("tokenID", token.ID).Uint("attemptID", attempt.ID).Msg("Token and attempt disagree")
		return nil, ErrUnavailable
	}
	return attempt, nil
}

// openAttempt is tokenAttempt restricted to attempts still in progress.
func (s *candidateService) openAttempt(ctx context.Context, tokenRepo repository.AccessTokenRepository, attemptRepo repository.TestAttemptRepository, value string) (*model.TestAttempt, error) {
	attempt, err := s.tokenAttempt(ctx, tokenRepo, attemptRepo, value)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, NewForbiddenError("attempt %d has already been submitted", attempt.ID)
	}
	return attempt, nil
}

func (s *candidateService) RecordAnswer(ctx context.Context, value string, req dto.RecordResponseRequest) (uint, error) {
	attempt, err := s.openAttempt(ctx, s.tokenRepo, s.testAttemptRepo, value)
	if err != nil {
		return 0, err
	}
	return s.responses.RecordResponse(ctx, RecordResponseInput{
		QuestionID: req.QuestionID,
		QuizTestID: attempt.TestID,
		ChoiceID:   req.ChoiceID,
		AttemptID:  &attempt.ID,
	})
}

// SubmitAttempt records the submitted selections, grades every question of
// the test and closes the attempt. An answer in the submission supersedes any
// selection recorded earlier for that question; the earlier rows are kept
// but no longer graded. Submissions after the deadline are accepted and
// flagged late.
func (s *candidateService) SubmitAttempt(ctx context.Context, value string, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	now := s.now()
	var attempt *model.TestAttempt
	var test *model.Test
	var questions []model.Question
	var grade AttemptGrade

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := s.testAttemptRepo.WithTx(tx)
		responseRepo := s.responseRepo.WithTx(tx)

		var err error
		attempt, err = s.openAttempt(ctx, s.tokenRepo.WithTx(tx), attemptRepo, value)
		if err != nil {
			return err
		}
		test, err = s.testRepo.WithTx(tx).FindByID(ctx, attempt.TestID)
		if err != nil {
			if isNotFound(err) {
				return NewNotFoundError("test %d no longer exists", attempt.TestID)
			}
			return fmt.Errorf("failed to load test %d: %w", attempt.TestID, err)
		}
		questions, err = s.questionRepo.WithTx(tx).FindByTestID(ctx, attempt.TestID)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}

		rows, err := submissionRows(attempt, questions, req.Answers)
		if err != nil {
			return err
		}
		for _, a := range req.Answers {
			if err := responseRepo.SupersedeByAttemptAndQuestion(ctx, attempt.ID, a.QuestionID); err != nil {
				return fmt.Errorf("failed to supersede previous selection: %w", err)
			}
		}
		if err := responseRepo.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("failed to record responses: %w", err)
		}

		recorded, err := responseRepo.FindByAttemptID(ctx, attempt.ID)
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		grade = GradeAttempt(questions, recorded)

		attempt.SubmittedAt = &now
		attempt.CorrectCount = grade.CorrectCount
		attempt.QuestionCount = grade.QuestionCount
		attempt.ScorePercent = grade.ScorePercent
		attempt.Late = attempt.SubmittedLate(test.Duration, now)
		completed, err := attemptRepo.Complete(ctx, attempt)
		if err != nil {
			return fmt.Errorf("failed to complete attempt: %w", err)
		}
		if !completed {
			return NewForbiddenError("attempt %d has already been submitted", attempt.ID)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsServiceError(err); !ok {
			log.Error().Err(err).Msg("SubmitAttempt transaction failed")
		}
		return nil, err
	}

	log.Info().
		Uint("attemptID", attempt.ID).
		Int("correct", grade.CorrectCount).
		Int("total", grade.QuestionCount).
		Float64("score", grade.ScorePercent).
		Bool("late", attempt.Late).
		Msg("Attempt graded")
	return buildAttemptResult(attempt, test, questions, grade), nil
}

// submissionRows validates submitted answers against the test and expands
// them into one response row per selected option.
func submissionRows(attempt *model.TestAttempt, questions []model.Question, answers []dto.AnswerDTO) ([]model.Response, error) {
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	seen := make(map[uint]bool, len(answers))
	var rows []model.Response
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, NewValidationError("question %d is not part of test %d", a.QuestionID, attempt.TestID)
		}
		if seen[a.QuestionID] {
			return nil, NewValidationError("question %d is answered more than once", a.QuestionID)
		}
		seen[a.QuestionID] = true

		selected := sortedUnique(a.ChoiceIDs)
		if q.Type == model.QuestionTypeSingleChoice && len(selected) > 1 {
			return nil, NewValidationError("question %d accepts a single choice", q.ID)
		}
		for _, choiceID := range selected {
			if choiceID <= 0 || !hasChoice(q, choiceID) {
				return nil, NewValidationError("choice %d is not an option of question %d", choiceID, q.ID)
			}
			rows = append(rows, model.Response{
				QuestionID: q.ID,
				QuizTestID: attempt.TestID,
				ChoiceID:   choiceID,
				AttemptID:  &attempt.ID,
			})
		}
	}
	return rows, nil
}

func (s *candidateService) GetAttemptResult(ctx context.Context, value string) (*dto.AttemptResultResponse, error) {
	owned, err := s.tokenAttempt(ctx, s.tokenRepo, s.testAttemptRepo, value)
	if err != nil {
		return nil, err
	}
	attemptID := owned.ID
	attempt, err := s.testAttemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnavailable
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load attempt")
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if attempt.Status != model.AttemptStatusCompleted || attempt.SubmittedAt == nil {
		return buildAttemptResult(attempt, &attempt.Test, nil, AttemptGrade{}), nil
	}

	questions, err := s.questionRepo.FindByTestIDAsOf(ctx, attempt.TestID, *attempt.SubmittedAt)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load questions for result")
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	grade := GradeAttempt(questions, attempt.Responses)
	return buildAttemptResult(attempt, &attempt.Test, questions, grade), nil
}

func (s *candidateService) ListAttempts(ctx context.Context, testID uint) ([]dto.AttemptResultResponse, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("test %d not found", testID)
		}
		return nil, fmt.Errorf("failed to load test %d: %w", testID, err)
	}
	attempts, err := s.testAttemptRepo.FindAllByTest(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to list attempts")
		return nil, fmt.Errorf("failed to list attempts of test %d: %w", testID, err)
	}
	resp := make([]dto.AttemptResultResponse, 0, len(attempts))
	for i := range attempts {
		resp = append(resp, *buildAttemptResult(&attempts[i], test, nil, AttemptGrade{}))
	}
	return resp, nil
}

// buildAttemptResult renders an attempt. The answer key and explanations
// are only revealed for practice tests.
func buildAttemptResult(attempt *model.TestAttempt, test *model.Test, questions []model.Question, grade AttemptGrade) *dto.AttemptResultResponse {
	resp := &dto.AttemptResultResponse{
		AttemptID:      attempt.ID,
		TestID:         attempt.TestID,
		TestTitle:      test.Title,
		CandidateEmail: attempt.CandidateEmail,
		Status:         attempt.Status,
		StartedAt:      attempt.StartedAt,
		SubmittedAt:    attempt.SubmittedAt,
		CorrectCount:   attempt.CorrectCount,
		QuestionCount:  attempt.QuestionCount,
		ScorePercent:   attempt.ScorePercent,
		Late:           attempt.Late,
	}
	reveal := test.Mode == model.ModePractice
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	for _, g := range grade.Questions {
		item := dto.QuestionResultDTO{
			QuestionID:        g.QuestionID,
			SelectedChoiceIDs: g.Selected,
			IsCorrect:         g.Correct,
		}
		if q, ok := byID[g.QuestionID]; ok && reveal {
			item.CorrectAnswerIDs = decodeCorrectIDs(q)
			item.AnswerDetails = q.AnswerDetails
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp
}
