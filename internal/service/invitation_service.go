package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/notify"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const bulkInvitationConcurrency = 4

type InvitationService interface {
	SendInvitation(ctx context.Context, req dto.InvitationRequest) (*dto.InvitationResponse, error)
	SendBulkInvitations(ctx context.Context, req dto.BulkInvitationRequest) (*dto.BulkInvitationResponse, error)
}

type invitationService struct {
	testRepo        repository.TestRepository
	tokens          AccessTokenService
	notifier        notify.Notifier
	baseURL         string
	defaultTTLHours int
}

func NewInvitationService(cfg *config.Config, testRepo repository.TestRepository, tokens AccessTokenService, notifier notify.Notifier) InvitationService {
	return &invitationService{
		testRepo:        testRepo,
		tokens:          tokens,
		notifier:        notifier,
		baseURL:         strings.TrimRight(cfg.FrontendBase, "/"),
		defaultTTLHours: cfg.Invitation.DefaultTTLHours,
	}
}

func (s *invitationService) invitationLink(token string) string {
	return fmt.Sprintf("%s/test-invitation/%s", s.baseURL, token)
}

func (s *invitationService) ttl(hours int) int {
	if hours == 0 {
		return s.defaultTTLHours
	}
	return hours
}

// SendInvitation issues (or reuses) a token for the candidate and emails the
// link. A failed delivery is reported as an error but the token remains and
// will be reused by the next attempt to invite the same candidate.
func (s *invitationService) SendInvitation(ctx context.Context, req dto.InvitationRequest) (*dto.InvitationResponse, error) {
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		return nil, NewValidationError("candidate name is required")
	}
	if req.TestID == 0 {
		return nil, NewValidationError("test id is required")
	}
	test, err := s.testRepo.FindByID(ctx, req.TestID)
	if err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("test %d not found", req.TestID)
		}
		log.Error().Err(err).Uint("testID", req.TestID).Msg("Failed to load test for invitation")
		return nil, fmt.Errorf("failed to load test %d: %w", req.TestID, err)
	}

	token, err := s.tokens.Issue(ctx, req.TestID, req.CandidateEmail, s.ttl(req.ExpirationHours))
	if err != nil {
		return nil, err
	}
	link := s.invitationLink(token.Token)

	if !s.notifier.SendInvitation(ctx, token.CandidateEmail, name, test.Title, link) {
		log.Warn().Uint("tokenID", token.ID).Uint("testID", test.ID).Msg("Invitation delivery failed")
		return nil, newServiceError(ErrorDelivery, "failed to deliver invitation to %s", token.CandidateEmail)
	}
	return &dto.InvitationResponse{
		TokenID:        token.ID,
		CandidateEmail: token.CandidateEmail,
		InvitationLink: link,
		ExpirationTime: token.ExpirationTime,
	}, nil
}

// SendBulkInvitations invites each candidate independently; one failure does
// not stop the others.
func (s *invitationService) SendBulkInvitations(ctx context.Context, req dto.BulkInvitationRequest) (*dto.BulkInvitationResponse, error) {
	if len(req.Candidates) == 0 {
		return nil, NewValidationError("at least one candidate is required")
	}
	if _, err := s.testRepo.FindByID(ctx, req.TestID); err != nil {
		if isNotFound(err) {
			return nil, NewNotFoundError("test %d not found", req.TestID)
		}
		return nil, fmt.Errorf("failed to load test %d: %w", req.TestID, err)
	}

	results := make([]dto.BulkInvitationResult, len(req.Candidates))
	var mu sync.Mutex
	succeeded := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkInvitationConcurrency)
	for i, c := range req.Candidates {
		g.Go(func() error {
			res := dto.BulkInvitationResult{CandidateEmail: c.Email}
			inv, err := s.SendInvitation(gctx, dto.InvitationRequest{
				TestID:          req.TestID,
				CandidateEmail:  c.Email,
				CandidateName:   c.Name,
				ExpirationHours: req.ExpirationHours,
			})
			if err != nil {
				res.Error = err.Error()
				if _, ok := AsServiceError(err); !ok {
					res.Error = "internal error"
				}
			} else {
				res.Success = true
				res.InvitationLink = inv.InvitationLink
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	log.Info().Uint("testID", req.TestID).Int("total", len(results)).Int("succeeded", succeeded).Msg("Bulk invitations processed")
	return &dto.BulkInvitationResponse{
		Total:     len(results),
		Succeeded: succeeded,
		Failed:    len(results) - succeeded,
		Results:   results,
	}, nil
}
