package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lshigami/quizgate/internal/dto"
)

func TestCreateTestValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	valid := dto.CreateTestRequest{Title: "Aptitude", Category: "aptitude", Mode: "practice", Level: "beginner", Duration: 20}

	tests := []struct {
		name   string
		mutate func(*dto.CreateTestRequest)
	}{
		{"blank title", func(r *dto.CreateTestRequest) { r.Title = "  " }},
		{"title too long", func(r *dto.CreateTestRequest) { r.Title = strings.Repeat("t", 201) }},
		{"unknown category", func(r *dto.CreateTestRequest) { r.Category = "history" }},
		{"unknown mode", func(r *dto.CreateTestRequest) { r.Mode = "live" }},
		{"unknown level", func(r *dto.CreateTestRequest) { r.Level = "expert" }},
		{"zero duration", func(r *dto.CreateTestRequest) { r.Duration = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := h.tests.CreateTest(ctx, req)
			assertCode(t, err, ErrorValidationFailed)
		})
	}

	created, err := h.tests.CreateTest(ctx, valid)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.IsActive || created.QuestionCount != 0 {
		t.Fatalf("unexpected test %+v", created)
	}
}

func TestUpdateAndToggleTest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	test := h.createTest(t, false, "exam")
	h.addSingleQuestion(t, test.ID)

	updated, err := h.tests.UpdateTest(ctx, test.ID, dto.UpdateTestRequest{
		Title: "Go advanced", Category: "technical", Mode: "practice", Level: "advanced", Duration: 45,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Go advanced" || updated.Mode != "practice" || updated.QuestionCount != 1 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	toggled, err := h.tests.ToggleActive(ctx, test.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsActive {
		t.Fatal("test should be active after toggle")
	}

	list, err := h.tests.ListTests(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].QuestionCount != 1 || !list[0].IsActive {
		t.Fatalf("unexpected list %+v", list)
	}

	_, err = h.tests.UpdateTest(ctx, test.ID+100, dto.UpdateTestRequest{
		Title: "x", Category: "general", Mode: "exam", Level: "beginner", Duration: 1,
	})
	assertCode(t, err, ErrorNotFound)
}

func TestDeleteTestGuardedWhileActive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	test := h.createTest(t, true, "exam")
	q := h.addMultiQuestion(t, test.ID)
	tok, err := h.tokens.Issue(ctx, test.ID, "erin@example.com", 24)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	assertCode(t, h.tests.DeleteTest(ctx, test.ID), ErrorForbidden)
	if _, err := h.questions.ListQuestions(ctx, test.ID); err != nil {
		t.Fatalf("refused delete must leave questions readable: %v", err)
	}

	if _, err := h.tests.ToggleActive(ctx, test.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := h.tests.DeleteTest(ctx, test.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = h.tests.GetTest(ctx, test.ID)
	assertCode(t, err, ErrorNotFound)
	_, err = h.questions.ListQuestions(ctx, test.ID)
	assertCode(t, err, ErrorNotFound)
	_, err = h.questions.GetQuestion(ctx, q.ID)
	assertCode(t, err, ErrorNotFound)
	assertCode(t, h.tests.DeleteTest(ctx, test.ID), ErrorNotFound)

	// Tokens stay for audit but no longer open anything.
	if _, err := h.tokens.Resolve(ctx, tok.Token); err != nil {
		t.Fatalf("token should remain resolvable: %v", err)
	}
	_, err = h.candidates.OpenInvitation(ctx, tok.Token)
	assertCode(t, err, ErrorUnavailable)
}
