package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
)

// ChatCompleter is the subset of the OpenAI client the transcriber uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Transcriber implements port.PageTranscriber with a vision model
type Transcriber struct {
	client  ChatCompleter
	model   string
	prompts *PromptConfig
	logger  *zap.Logger
}

// NewTranscriber creates a transcriber backed by the OpenAI API
func NewTranscriber(apiKey, model string, prompts *PromptConfig, logger *zap.Logger) *Transcriber {
	return NewTranscriberWithClient(openai.NewClient(apiKey), model, prompts, logger)
}

// NewTranscriberWithClient creates a transcriber using the given client.
// A nil prompts uses DefaultPrompts.
func NewTranscriberWithClient(client ChatCompleter, model string, prompts *PromptConfig, logger *zap.Logger) *Transcriber {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Transcriber{
		client:  client,
		model:   model,
		prompts: prompts,
		logger:  logger,
	}
}

// TranscribePage returns the text visible on a JPEG page image
func (t *Transcriber) TranscribePage(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image cannot be empty")
	}

	url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	p := t.prompts.PageTranscription

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: p.System,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: p.User},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    url,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		t.logger.Error("Vision API call failed", zap.Error(err))
		return "", fmt.Errorf("vision API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from vision API")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	t.logger.Debug("Page transcribed",
		zap.Int("image_bytes", len(image)),
		zap.Int("text_length", len(text)))
	return text, nil
}

// Verify interface compliance
var _ port.PageTranscriber = (*Transcriber)(nil)
