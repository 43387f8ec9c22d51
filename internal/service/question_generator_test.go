package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
)

type fakeTextModel struct {
	reply  string
	err    error
	prompt string
}

func (m *fakeTextModel) generateText(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.reply, m.err
}

const twoDrafts = "```json\n" + `[
  {"content":"Which keyword declares a constant in Go?","choices":[{"id":1,"content":"const"},{"id":2,"content":"let"},{"id":3,"content":"final"},{"id":4,"content":"static"}],"correct_answer_ids":[1],"answer_details":"Go uses const."},
  {"content":"Too short","choices":[{"id":1,"content":"a"},{"id":2,"content":"b"}],"correct_answer_ids":[1]},
  {"content":"Which type is the zero value of an interface?","choices":[{"id":1,"content":"nil"},{"id":2,"content":"0"}],"correct_answer_ids":[1,2]}
]` + "\n```"

func TestParseDrafts(t *testing.T) {
	drafts, err := parseDrafts(twoDrafts, model.QuestionTypeSingleChoice)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// The short one and the two-answer single choice are discarded.
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1: %+v", len(drafts), drafts)
	}
	d := drafts[0]
	if d.Type != "single_choice" || len(d.Choices) != 4 || d.AnswerDetails == nil || *d.AnswerDetails != "Go uses const." {
		t.Fatalf("unexpected draft %+v", d)
	}

	multi, err := parseDrafts(twoDrafts, model.QuestionTypeMultiChoice)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(multi) != 2 || multi[1].AnswerDetails != nil {
		t.Fatalf("unexpected multi drafts %+v", multi)
	}

	if _, err := parseDrafts("I cannot help with that.", model.QuestionTypeMultiChoice); err == nil {
		t.Fatal("expected an error for a reply without JSON")
	}
}

func TestGenerateDrafts(t *testing.T) {
	ctx := context.Background()
	req := dto.GenerateQuestionsRequest{Topic: "Go basics", Type: "multi_choice", Level: "beginner", Count: 1}

	fake := &fakeTextModel{reply: twoDrafts}
	gen := &questionGenerator{model: fake}
	drafts, err := gen.GenerateDrafts(ctx, req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("count should cap drafts, got %d", len(drafts))
	}
	if !strings.Contains(fake.prompt, "Go basics") || !strings.Contains(fake.prompt, "Difficulty: beginner") {
		t.Fatalf("prompt misses request details:\n%s", fake.prompt)
	}

	tests := []struct {
		name string
		gen  *questionGenerator
		req  dto.GenerateQuestionsRequest
		want ErrorCode
	}{
		{"not configured", &questionGenerator{}, req, ErrorAIUnavailable},
		{"model error", &questionGenerator{model: &fakeTextModel{err: errors.New("quota")}}, req, ErrorAIUnavailable},
		{"unreadable reply", &questionGenerator{model: &fakeTextModel{reply: "nope"}}, req, ErrorAIUnavailable},
		{"nothing valid", &questionGenerator{model: &fakeTextModel{reply: "[]"}}, req, ErrorAIUnavailable},
		{"bad type", gen, dto.GenerateQuestionsRequest{Topic: "Go", Type: "essay", Count: 1}, ErrorValidationFailed},
		{"blank topic", gen, dto.GenerateQuestionsRequest{Topic: " ", Type: "multi_choice", Count: 1}, ErrorValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen.GenerateDrafts(ctx, tt.req)
			assertCode(t, err, tt.want)
		})
	}
}
