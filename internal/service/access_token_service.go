package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
)

type AccessTokenService interface {
	// Issue returns a still-valid unused token for the pair if one exists,
	// otherwise mints a new one valid for ttlHours. Concurrent calls for the
	// same pair may both mint a token.
	Issue(ctx context.Context, testID uint, candidateEmail string, ttlHours int) (*dto.TokenResponse, error)
	// Resolve looks a token up without checking whether it is redeemable.
	Resolve(ctx context.Context, token string) (*dto.TokenResponse, error)
	// Redeem marks the token used and returns it. Exactly one caller wins per
	// token.
	Redeem(ctx context.Context, token string, attemptID *uint) (*dto.TokenResponse, error)
	ListForTest(ctx context.Context, testID uint) ([]dto.TokenResponse, error)
}

type accessTokenService struct {
	testRepo    repository.TestRepository
	tokenRepo   repository.AccessTokenRepository
	attemptRepo repository.TestAttemptRepository
	validate    *validator.Validate
	minTTL      int
	maxTTL      int
	now         func() time.Time
}

func NewAccessTokenService(
	cfg *config.Config,
	testRepo repository.TestRepository,
	tokenRepo repository.AccessTokenRepository,
	attemptRepo repository.TestAttemptRepository,
) AccessTokenService {
	return newAccessTokenService(cfg, testRepo, tokenRepo, attemptRepo, time.Now)
}

func newAccessTokenService(
	cfg *config.Config,
	testRepo repository.TestRepository,
	tokenRepo repository.AccessTokenRepository,
	attemptRepo repository.TestAttemptRepository,
	now func() time.Time,
) *accessTokenService {
	return &accessTokenService{
		testRepo:    testRepo,
		tokenRepo:   tokenRepo,
		attemptRepo: attemptRepo,
		validate:    validator.New(),
		minTTL:      cfg.Token.MinTTLHours,
		maxTTL:      cfg.Token.MaxTTLHours,
		now:         func() time.Time { return now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toTokenResponse(t *model.TestAccessToken, now time.Time) dto.TokenResponse {
	var resp dto.TokenResponse
	copier.Copy(&resp, t)
	resp.Status = string(t.Status(now))
	return resp
}

func (s *accessTokenService) Issue(ctx context.Context, testID uint, candidateEmail string, ttlHours int) (*dto.TokenResponse, error) {
	if ttlHours < s.minTTL || ttlHours > s.maxTTL {
		return nil, NewValidationError("expiration must be between %d and %d hours", s.minTTL, s.maxTTL)
	}
	email := normalizeEmail(candidateEmail)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, NewValidationError("invalid candidate email %q", candidateEmail)
	}
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("test %d not found", testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to load test for token issue")
		return nil, fmt.Errorf("failed to load test %d: %w", testID, err)
	}
	if !test.TryAgain {
		done, err := s.attemptRepo.CountCompletedByCandidate(ctx, testID, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check previous attempts: %w", err)
		}
		if done > 0 {
			return nil, NewForbiddenError("%s has already completed test %d, which does not allow retakes", email, testID)
		}
	}

	now := s.now()
	existing, err := s.tokenRepo.FindReusable(ctx, email, testID, now)
	if err == nil {
		log.Info().Uint("tokenID", existing.ID).Uint("testID", testID).Msg("Reusing existing access token")
		resp := toTokenResponse(existing, now)
		return &resp, nil
	}
	if !isNotFound(err) {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to look up reusable token")
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	token := model.TestAccessToken{
		CandidateEmail: email,
		TestID:         testID,
		ExpirationTime: now.Add(time.Duration(ttlHours) * time.Hour),
	}
	if err := s.tokenRepo.Create(ctx, &token); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to create access token")
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	log.Info().Uint("tokenID", token.ID).Uint("testID", testID).Int("ttlHours", ttlHours).Msg("Access token issued")
	resp := toTokenResponse(&token, now)
	return &resp, nil
}

func (s *accessTokenService) Resolve(ctx context.Context, token string) (*dto.TokenResponse, error) {
	t, err := s.tokenRepo.FindByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("access token not found")
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	resp := toTokenResponse(t, s.now())
	return &resp, nil
}

func (s *accessTokenService) Redeem(ctx context.Context, token string, attemptID *uint) (*dto.TokenResponse, error) {
	value := strings.TrimSpace(token)
	now := s.now()
	if err := redeemToken(ctx, s.tokenRepo, value, attemptID, now); err != nil {
		return nil, err
	}
	t, err := s.tokenRepo.FindByToken(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to reload redeemed token: %w", err)
	}
	log.Info().Uint("tokenID", t.ID).Uint("testID", t.TestID).Msg("Access token redeemed")
	resp := toTokenResponse(t, now)
	return &resp, nil
}

// redeemToken performs the guarded update and, when it does not apply,
// classifies why. Used wins over expired.
func redeemToken(ctx context.Context, repo repository.AccessTokenRepository, token string, attemptID *uint, now time.Time) error {
	ok, err := repo.MarkUsed(ctx, token, attemptID, now)
	if err != nil {
		return fmt.Errorf("failed to redeem token: %w", err)
	}
	if ok {
		return nil
	}
	t, err := repo.FindByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return NewNotFoundError("access token not found")
		}
		return fmt.Errorf("failed to reload token: %w", err)
	}
	switch t.Status(now) {
	case model.TokenUsed:
		return NewForbiddenError("access token has already been used")
	case model.TokenExpired:
		return NewExpiredError("access token expired at %s", t.ExpirationTime.Format(time.RFC3339))
	}
	// The row changed between the update and the reload; report it as used.
	return NewForbiddenError("access token has already been used")
}

func (s *accessTokenService) ListForTest(ctx context.Context, testID uint) ([]dto.TokenResponse, error) {
	tokens, err := s.tokenRepo.FindByTestID(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to list tokens")
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	now := s.now()
	resp := make([]dto.TokenResponse, 0, len(tokens))
	for i := range tokens {
		resp = append(resp, toTokenResponse(&tokens[i], now))
	}
	return resp, nil
}
