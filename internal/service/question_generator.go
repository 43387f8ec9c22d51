package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// QuestionGenerator drafts multiple-choice questions with an LLM. Drafts are
// validated like authored questions but never stored.
type QuestionGenerator interface {
	GenerateDrafts(ctx context.Context, req dto.GenerateQuestionsRequest) ([]dto.QuestionDraft, error)
}

// textModel is the part of the Gemini client the generator needs.
type textModel interface {
	generateText(ctx context.Context, prompt string) (string, error)
}

type geminiTextModel struct {
	model *genai.GenerativeModel
}

func (m *geminiTextModel) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

type questionGenerator struct {
	model textModel
}

func NewQuestionGenerator(cfg *config.Config) (QuestionGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will be unavailable.")
		return &questionGenerator{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.ResponseMIMEType = "application/json"
	return &questionGenerator{model: &geminiTextModel{model: m}}, nil
}

func buildGenerationPrompt(req dto.GenerateQuestionsRequest) string {
	var sb strings.Builder
	sb.WriteString("You write questions for online multiple-choice assessments.\n")
	fmt.Fprintf(&sb, "Write %d question(s) about: %s\n", req.Count, req.Topic)
	if req.Level != "" {
		fmt.Fprintf(&sb, "Difficulty: %s\n", req.Level)
	}
	if model.QuestionType(req.Type) == model.QuestionTypeSingleChoice {
		sb.WriteString("Each question has exactly one correct choice.\n")
	} else {
		sb.WriteString("Each question may have one or more correct choices.\n")
	}
	sb.WriteString(`Rules:
- content is between 10 and 1000 characters
- 4 choices with ids 1, 2, 3, 4
- correct_answer_ids lists ids of correct choices
- answer_details explains the answer in under 500 characters
Respond with a JSON array only, in this shape:
[{"content":"...","choices":[{"id":1,"content":"..."}],"correct_answer_ids":[1],"answer_details":"..."}]`)
	return sb.String()
}

type rawDraft struct {
	Content          string          `json:"content"`
	Choices          []dto.ChoiceDTO `json:"choices"`
	CorrectAnswerIDs []int           `json:"correct_answer_ids"`
	AnswerDetails    string          `json:"answer_details"`
}

// parseDrafts extracts the JSON array from a model reply and keeps only the
// drafts that pass question validation.
func parseDrafts(raw string, qType model.QuestionType) ([]dto.QuestionDraft, error) {
	text := strings.TrimSpace(raw)
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			text = text[start : end+1]
		}
	}
	var items []rawDraft
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("unreadable model reply: %w", err)
	}

	drafts := make([]dto.QuestionDraft, 0, len(items))
	for i, it := range items {
		var details *string
		if d := strings.TrimSpace(it.AnswerDetails); d != "" {
			details = &d
		}
		if err := validateQuestion(it.Content, qType, it.Choices, it.CorrectAnswerIDs, details); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Discarding invalid generated question")
			continue
		}
		drafts = append(drafts, dto.QuestionDraft{
			Content:          strings.TrimSpace(it.Content),
			Type:             string(qType),
			Choices:          it.Choices,
			CorrectAnswerIDs: sortedUnique(it.CorrectAnswerIDs),
			AnswerDetails:    details,
		})
	}
	return drafts, nil
}

func (g *questionGenerator) GenerateDrafts(ctx context.Context, req dto.GenerateQuestionsRequest) ([]dto.QuestionDraft, error) {
	if g.model == nil {
		return nil, newServiceError(ErrorAIUnavailable, "question generation is not configured")
	}
	qType := model.QuestionType(req.Type)
	if !qType.Valid() {
		return nil, NewValidationError("unknown question type %q", req.Type)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, NewValidationError("topic is required")
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	reply, err := g.model.generateText(ctx, buildGenerationPrompt(req))
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("Gemini API error during question generation")
		return nil, newServiceError(ErrorAIUnavailable, "question generation failed")
	}
	drafts, err := parseDrafts(reply, qType)
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", reply).Msg("Failed to parse generated questions")
		return nil, newServiceError(ErrorAIUnavailable, "question generation returned an unreadable reply")
	}
	if len(drafts) == 0 {
		return nil, newServiceError(ErrorAIUnavailable, "question generation produced no valid questions")
	}
	if len(drafts) > req.Count {
		drafts = drafts[:req.Count]
	}
	return drafts, nil
}
