// Package llm wraps the text-generation services used for narrative reports.
package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when a provider has no credentials.
var ErrMissingAPIKey = errors.New("api key not configured")

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// modelOption returns options["model"] when set, else fallback.
func modelOption(options map[string]interface{}, fallback string) string {
	if val, ok := options["model"].(string); ok && val != "" {
		return val
	}
	return fallback
}

// temperatureOption returns options["temperature"] when set, else fallback.
func temperatureOption(options map[string]interface{}, fallback float32) float32 {
	switch v := options["temperature"].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	}
	return fallback
}
