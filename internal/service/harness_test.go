package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/cache"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/lshigami/quizgate/internal/testutil"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type sentInvitation struct {
	email, name, title, link string
}

type fakeNotifier struct {
	mu   sync.Mutex
	ok   bool
	sent []sentInvitation
}

func (n *fakeNotifier) SendInvitation(_ context.Context, email, name, title, link string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentInvitation{email, name, title, link})
	return n.ok
}

type harness struct {
	db    *gorm.DB
	clock *fakeClock
	cfg   *config.Config

	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	tokenRepo    repository.AccessTokenRepository
	attemptRepo  repository.TestAttemptRepository
	responseRepo repository.ResponseRepository

	tests       TestService
	questions   QuestionService
	tokens      AccessTokenService
	responses   ResponseService
	candidates  CandidateService
	invitations InvitationService
	notifier    *fakeNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	clk := &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	db.Config.NowFunc = clk.Now

	cfg := &config.Config{
		Token:        config.Token{MinTTLHours: 1, MaxTTLHours: 168},
		Invitation:   config.Invitation{DefaultTTLHours: 72},
		FrontendBase: "http://localhost:4200/",
	}

	h := &harness{
		db:           db,
		clock:        clk,
		cfg:          cfg,
		testRepo:     repository.NewTestRepository(db),
		questionRepo: repository.NewQuestionRepository(db),
		tokenRepo:    repository.NewAccessTokenRepository(db),
		attemptRepo:  repository.NewTestAttemptRepository(db),
		responseRepo: repository.NewResponseRepository(db),
		notifier:     &fakeNotifier{ok: true},
	}
	qc := cache.NoopQuestionCache{}
	h.tests = NewTestService(h.testRepo, h.questionRepo, qc, db)
	h.questions = NewQuestionService(h.testRepo, h.questionRepo, h.responseRepo, qc)
	h.tokens = newAccessTokenService(cfg, h.testRepo, h.tokenRepo, h.attemptRepo, clk.Now)
	h.responses = NewResponseService(h.questionRepo, h.responseRepo, db)
	h.candidates = newCandidateService(h.testRepo, h.questionRepo, h.tokenRepo, h.attemptRepo, h.responseRepo, h.responses, db, clk.Now)
	h.invitations = NewInvitationService(cfg, h.testRepo, h.tokens, h.notifier)
	return h
}

func (h *harness) createTest(t *testing.T, active bool, mode string) *dto.TestResponse {
	t.Helper()
	resp, err := h.tests.CreateTest(context.Background(), dto.CreateTestRequest{
		Title:    "Go fundamentals",
		Category: "technical",
		Mode:     mode,
		Level:    "intermediate",
		Duration: 30,
		IsActive: active,
	})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}
	return resp
}

func (h *harness) addMultiQuestion(t *testing.T, testID uint) *dto.QuestionResponse {
	t.Helper()
	details := "Goroutines and channels are both built in."
	q, err := h.questions.AddQuestion(context.Background(), testID, dto.CreateQuestionRequest{
		Content:          "Which of these are Go concurrency primitives?",
		Type:             "multi_choice",
		Choices:          []dto.ChoiceDTO{{ID: 1, Content: "goroutine"}, {ID: 2, Content: "thread"}, {ID: 3, Content: "channel"}},
		CorrectAnswerIDs: []int{1, 3},
		AnswerDetails:    &details,
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	return q
}

func (h *harness) addSingleQuestion(t *testing.T, testID uint) *dto.QuestionResponse {
	t.Helper()
	q, err := h.questions.AddQuestion(context.Background(), testID, dto.CreateQuestionRequest{
		Content:          "Which keyword starts a goroutine?",
		Type:             "single_choice",
		Choices:          []dto.ChoiceDTO{{ID: 1, Content: "go"}, {ID: 2, Content: "async"}, {ID: 3, Content: "spawn"}},
		CorrectAnswerIDs: []int{1},
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	return q
}

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := CodeOf(err); got != want {
		t.Fatalf("error code = %q (%v), want %q", got, err, want)
	}
}
