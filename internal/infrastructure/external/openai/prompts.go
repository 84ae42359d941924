package openai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the prompts and model parameters used by the transcriber
type PromptConfig struct {
	PageTranscription struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
		System      string  `yaml:"system"`
		User        string  `yaml:"user"`
	} `yaml:"page_transcription"`
}

// DefaultPrompts returns the built-in prompts
func DefaultPrompts() *PromptConfig {
	var p PromptConfig
	p.PageTranscription.MaxTokens = 4096
	p.PageTranscription.System = `You transcribe scanned foundation repair proposals and inspection reports.
Return only the text on the page, line by line, with no commentary.
Keep product names, quantities and measurements exactly as written.`
	p.PageTranscription.User = "Transcribe all text on this page."
	return &p
}

// LoadPrompts loads prompt configuration from a YAML file. Fields missing
// from the file keep their default values.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	prompts := DefaultPrompts()
	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	return prompts, nil
}
