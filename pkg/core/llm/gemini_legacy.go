package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	genailegacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLegacyProvider talks to Gemini through the older generative-ai-go
// client. Kept for deployments pinned to it.
type GeminiLegacyProvider struct {
	Model  string
	APIKey string // falls back to GEMINI_API_KEY
}

var _ Provider = (*GeminiLegacyProvider)(nil)

func (p *GeminiLegacyProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("gemini legacy: %w", ErrMissingAPIKey)
	}

	client, err := genailegacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	name := p.Model
	if name == "" {
		name = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelOption(options, name))
	model.SetTemperature(temperatureOption(options, 0.4))
	if systemPrompt != "" {
		model.SystemInstruction = &genailegacy.Content{
			Parts: []genailegacy.Part{genailegacy.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genailegacy.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genailegacy.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (p *GeminiLegacyProvider) AdaptInstructions(raw string) string {
	return raw
}
