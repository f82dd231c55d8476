package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when neither the provider nor the call names one.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider on the official GenAI SDK.
type GeminiProvider struct {
	Model  string
	APIKey string // falls back to GEMINI_API_KEY
}

var _ Provider = (*GeminiProvider)(nil)

// GenerateResponse sends one generateContent request.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	model := p.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	model = modelOption(options, model)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperatureOption(options, 0.4)),
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}
