package openai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockChat struct {
	CreateFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return m.CreateFunc(ctx, req)
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}
}

func TestTranscriber_TranscribePage(t *testing.T) {
	var captured openai.ChatCompletionRequest
	client := &mockChat{CreateFunc: func(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		captured = req
		return reply("  Install 6 push piers\n"), nil
	}}

	tr := NewTranscriberWithClient(client, "gpt-4o", nil, zap.NewNop())
	text, err := tr.TranscribePage(context.Background(), []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "Install 6 push piers", text)

	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 4096, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	parts := captured.Messages[1].MultiContent
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].ImageURL)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestTranscriber_Errors(t *testing.T) {
	tr := NewTranscriberWithClient(&mockChat{CreateFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("rate limited")
	}}, "gpt-4o", nil, zap.NewNop())

	_, err := tr.TranscribePage(context.Background(), nil)
	assert.Error(t, err)

	_, err = tr.TranscribePage(context.Background(), []byte{1})
	assert.ErrorContains(t, err, "rate limited")

	empty := NewTranscriberWithClient(&mockChat{CreateFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	}}, "gpt-4o", nil, zap.NewNop())
	_, err = empty.TranscribePage(context.Background(), []byte{1})
	assert.ErrorContains(t, err, "no response")
}

func TestLoadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_transcription:\n  temperature: 0.2\n  user: Read this page.\n"), 0o600))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), prompts.PageTranscription.Temperature)
	assert.Equal(t, "Read this page.", prompts.PageTranscription.User)
	assert.Equal(t, DefaultPrompts().PageTranscription.System, prompts.PageTranscription.System)
	assert.Equal(t, 4096, prompts.PageTranscription.MaxTokens)

	_, err = LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
