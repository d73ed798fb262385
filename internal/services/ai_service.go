package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"google.golang.org/api/option"
)

const (
	geminiModel       = "gemini-1.5-flash"
	maxQuestionLength = 500
	answerTimeout     = 30 * time.Second
)

// AIService answers free-form FAQ questions. Gemini is asked first and
// OpenAI is the fallback; either client may be absent.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
	// timeout bounds a whole Answer call, fallback included.
	timeout time.Duration
}

func NewAIService(ctx context.Context, geminiAPIKey, openaiAPIKey string) (*AIService, error) {
	s := &AIService{timeout: answerTimeout}
	if geminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	}
	if openaiAPIKey != "" {
		s.openaiClient = openai.NewClient(openaiAPIKey)
	}
	return s, nil
}

func (s *AIService) Enabled() bool {
	return s.geminiClient != nil || s.openaiClient != nil
}

func (s *AIService) Close() error {
	if s.geminiClient == nil {
		return nil
	}
	return s.geminiClient.Close()
}

func (s *AIService) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewInvalidInputError("question", "must not be empty")
	}
	if len(question) > maxQuestionLength {
		return "", apperrors.NewInvalidInputError("question", fmt.Sprintf("must be at most %d characters", maxQuestionLength))
	}
	if !s.Enabled() {
		return "", apperrors.ErrExternalAPI
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	prompt := buildFAQPrompt(question)

	if s.geminiClient != nil {
		answer, err := s.answerWithGemini(ctx, prompt)
		if err == nil {
			return answer, nil
		}
		if s.openaiClient == nil || timedOut(ctx) {
			return "", providerError(ctx, err, "gemini")
		}
		logger.Warn("Gemini failed, falling back to OpenAI", "error", err)
	}

	answer, err := s.answerWithOpenAI(ctx, prompt)
	if err != nil {
		return "", providerError(ctx, err, "openai")
	}
	return answer, nil
}

func timedOut(ctx context.Context) bool {
	return stderrors.Is(ctx.Err(), context.DeadlineExceeded)
}

func providerError(ctx context.Context, err error, api string) error {
	if timedOut(ctx) {
		return apperrors.NewTimeoutError("assistant").WithContext("api", api)
	}
	return apperrors.NewExternalAPIError(err, api)
}

func (s *AIService) answerWithGemini(ctx context.Context, prompt string) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return geminiText(resp)
}

func (s *AIService) answerWithOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT3Dot5Turbo,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// geminiText joins the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("no text in response")
	}
	return answer, nil
}

func buildFAQPrompt(question string) string {
	var b strings.Builder
	b.WriteString(`You are a knowledgeable and careful assistant in a Qadha (missed prayer) tracker.
Answer the user's question about making up missed obligatory prayers.

REQUIREMENTS:
- Answer briefly, in plain text without markdown
- When schools of jurisprudence differ, name the Hanafi, Maliki, Shafi'i and Hanbali positions
- If the question is not about prayer, politely say you can only help with Qadha
- Recommend asking a local scholar for personal rulings

Reference answers already shown to users:
`)
	for _, e := range faqEntries {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", e.Question, e.Answer)
	}
	fmt.Fprintf(&b, "\nUser question: %s\n", question)
	return b.String()
}
