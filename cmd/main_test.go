package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/config"
	adminctrl "github.com/lshigami/quizgate/internal/controller/admin"
	candidatectrl "github.com/lshigami/quizgate/internal/controller/candidate"
	"github.com/lshigami/quizgate/internal/cache"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/middleware"
	"github.com/lshigami/quizgate/internal/notify"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/lshigami/quizgate/internal/service"
	"github.com/lshigami/quizgate/internal/testutil"
)

const testSecret = "route-test-secret"

// newTestRouter wires the real stack over an in-memory database, the same
// way the fx graph in main does.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Server:       config.Server{GinMode: gin.TestMode},
		Auth:         config.Auth{JWTSecret: testSecret},
		Token:        config.Token{MinTTLHours: 1, MaxTTLHours: 168},
		Invitation:   config.Invitation{DefaultTTLHours: 72},
		FrontendBase: "http://localhost:4200/",
	}

	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	tokenRepo := repository.NewAccessTokenRepository(db)
	attemptRepo := repository.NewTestAttemptRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	qc := cache.NoopQuestionCache{}
	tests := service.NewTestService(testRepo, questionRepo, qc, db)
	questions := service.NewQuestionService(testRepo, questionRepo, responseRepo, qc)
	tokens := service.NewAccessTokenService(cfg, testRepo, tokenRepo, attemptRepo)
	responses := service.NewResponseService(questionRepo, responseRepo, db)
	invitations := service.NewInvitationService(cfg, testRepo, tokens, notify.LogNotifier{})
	candidates := service.NewCandidateService(testRepo, questionRepo, tokenRepo, attemptRepo, responseRepo, responses, db)
	generator, err := service.NewQuestionGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}

	router := NewGinEngine(cfg)
	RegisterRoutes(
		router,
		middleware.NewAdminAuth(cfg),
		adminctrl.NewAdminTestController(tests, questions, generator),
		adminctrl.NewAdminAccessController(tokens, invitations, candidates),
		candidatectrl.NewCandidateController(candidates),
	)
	return router
}

func adminBearer(t *testing.T) string {
	t.Helper()
	tok, err := middleware.SignAdminToken([]byte(testSecret), "admin-7", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func call(t *testing.T, r http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int, out interface{}) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
}

var pathParam = regexp.MustCompile(`:[a-z_]+`)

func TestAdminRoutesRequireBearer(t *testing.T) {
	r := newTestRouter(t)
	foreign, err := middleware.SignAdminToken([]byte("someone-else"), "admin-7", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	checked := 0
	for _, route := range r.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/admin") {
			continue
		}
		path := pathParam.ReplaceAllString(route.Path, "1")
		for _, bearer := range []string{"", "Bearer " + foreign} {
			w := call(t, r, route.Method, path, bearer, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s with %q: status = %d, want 401", route.Method, path, bearer, w.Code)
			}
		}
		checked++
	}
	if checked < 15 {
		t.Fatalf("only %d admin routes registered", checked)
	}

	// Candidate routes stay open to anyone holding a link.
	w := call(t, r, http.MethodGet, "/api/v1/test-invitation/unknown", "", nil)
	expect(t, w, http.StatusNotFound, nil)
}

func TestCandidateRoutesUseTheInvitationToken(t *testing.T) {
	r := newTestRouter(t)
	admin := adminBearer(t)

	var test dto.TestResponse
	expect(t, call(t, r, http.MethodPost, "/api/v1/admin/tests", admin, dto.CreateTestRequest{
		Title: "Go routing", Category: "technical", Mode: "exam", Level: "beginner", Duration: 30, IsActive: true,
	}), http.StatusCreated, &test)

	var q dto.QuestionResponse
	expect(t, call(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/tests/%d/questions", test.ID), admin, dto.CreateQuestionRequest{
		Content:          "Which keyword starts a goroutine?",
		Type:             "single_choice",
		Choices:          []dto.ChoiceDTO{{ID: 1, Content: "go"}, {ID: 2, Content: "async"}},
		CorrectAnswerIDs: []int{1},
	}), http.StatusCreated, &q)

	issue := func(email string) string {
		t.Helper()
		var tok dto.TokenResponse
		expect(t, call(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/tests/%d/tokens", test.ID), admin, dto.IssueTokenRequest{
			CandidateEmail: email, ExpirationHours: 24,
		}), http.StatusCreated, &tok)
		return tok.Token
	}
	alice := issue("alice@example.com")
	bob := issue("bob@example.com")
	invitation := func(token string) string { return "/api/v1/test-invitation/" + token }

	var view dto.CandidateTestDTO
	expect(t, call(t, r, http.MethodGet, invitation(alice), "", nil), http.StatusOK, &view)
	if view.TestID != test.ID || len(view.Questions) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}

	var started dto.AttemptStartedResponse
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt", "", nil), http.StatusCreated, &started)
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt", "", nil), http.StatusNotFound, nil)

	// Knowing the attempt id is not enough; only alice's token reaches it.
	answer := dto.RecordResponseRequest{QuestionID: q.ID, ChoiceID: 1}
	for _, token := range []string{bob, "3f0c7d4e-0000-4000-8000-000000000000", fmt.Sprint(started.AttemptID)} {
		expect(t, call(t, r, http.MethodGet, invitation(token)+"/attempt", "", nil), http.StatusNotFound, nil)
		expect(t, call(t, r, http.MethodPost, invitation(token)+"/attempt/responses", "", answer), http.StatusNotFound, nil)
		expect(t, call(t, r, http.MethodPost, invitation(token)+"/attempt/submit", "", dto.SubmitAttemptRequest{}), http.StatusNotFound, nil)
	}
	for _, legacy := range []string{"/api/v1/attempts/1", "/api/v1/attempts/1/submit"} {
		if w := call(t, r, http.MethodGet, legacy, "", nil); w.Code != http.StatusNotFound {
			t.Fatalf("%s should not be routed, status %d", legacy, w.Code)
		}
	}

	var recorded dto.IDResponse
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt/responses", "", answer), http.StatusCreated, &recorded)
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt/responses", "", dto.RecordResponseRequest{QuestionID: q.ID, ChoiceID: 9}), http.StatusBadRequest, nil)

	var result dto.AttemptResultResponse
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt/submit", "", dto.SubmitAttemptRequest{}), http.StatusOK, &result)
	if result.AttemptID != started.AttemptID || result.CorrectCount != 1 || result.QuestionCount != 1 || result.Late {
		t.Fatalf("unexpected result %+v", result)
	}
	expect(t, call(t, r, http.MethodPost, invitation(alice)+"/attempt/submit", "", dto.SubmitAttemptRequest{}), http.StatusForbidden, nil)

	var stored dto.AttemptResultResponse
	expect(t, call(t, r, http.MethodGet, invitation(alice)+"/attempt", "", nil), http.StatusOK, &stored)
	if stored.Status != "completed" || stored.ScorePercent != 100 {
		t.Fatalf("unexpected stored result %+v", stored)
	}

	var attempts []dto.AttemptResultResponse
	expect(t, call(t, r, http.MethodGet, fmt.Sprintf("/api/v1/admin/tests/%d/attempts", test.ID), admin, nil), http.StatusOK, &attempts)
	if len(attempts) != 1 || attempts[0].CandidateEmail != "alice@example.com" {
		t.Fatalf("unexpected attempts %+v", attempts)
	}

	// No retakes on this test.
	expect(t, call(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/tests/%d/tokens", test.ID), admin, dto.IssueTokenRequest{
		CandidateEmail: "alice@example.com", ExpirationHours: 24,
	}), http.StatusForbidden, nil)

	expect(t, call(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/tests/%d", test.ID), admin, nil), http.StatusForbidden, nil)
	expect(t, call(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/admin/tests/%d/toggle-status", test.ID), admin, nil), http.StatusOK, nil)
	expect(t, call(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/tests/%d", test.ID), admin, nil), http.StatusNoContent, nil)
}
