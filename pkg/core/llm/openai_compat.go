package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ChatProvider speaks the OpenAI chat-completions protocol, which DeepSeek
// and Qwen both expose.
type ChatProvider struct {
	Name      string
	BaseURL   string // e.g. https://api.deepseek.com/chat/completions
	Model     string
	APIKeyEnv string
	Client    *http.Client
}

var _ Provider = (*ChatProvider)(nil)

// NewDeepSeekProvider targets the DeepSeek API.
func NewDeepSeekProvider() *ChatProvider {
	return &ChatProvider{
		Name:      "deepseek",
		BaseURL:   "https://api.deepseek.com/chat/completions",
		Model:     "deepseek-chat",
		APIKeyEnv: "DEEPSEEK_API_KEY",
	}
}

// NewQwenProvider targets DashScope's OpenAI-compatible endpoint.
func NewQwenProvider() *ChatProvider {
	return &ChatProvider{
		Name:      "qwen",
		BaseURL:   "https://dashscope-intl.aliyuncs.com/compatible-mode/v1/chat/completions",
		Model:     "qwen-plus",
		APIKeyEnv: "DASHSCOPE_API_KEY",
	}
}

type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *ChatProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv(p.APIKeyEnv)
	if val, ok := options["api_key"].(string); ok && val != "" {
		apiKey = val
	}
	if apiKey == "" {
		return "", fmt.Errorf("%s: %w (set %s)", p.Name, ErrMissingAPIKey, p.APIKeyEnv)
	}

	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Content: systemPrompt, Role: "system"})
	}
	messages = append(messages, Message{Content: prompt, Role: "user"})

	body, err := json.Marshal(chatRequest{
		Model:       modelOption(options, p.Model),
		Messages:    messages,
		MaxTokens:   4096,
		Temperature: temperatureOption(options, 0.4),
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: api call: %w", p.Name, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", p.Name, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status=%d body=%s", p.Name, res.StatusCode, string(raw))
	}

	var response chatResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", p.Name, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", p.Name)
	}
	return response.Choices[0].Message.Content, nil
}

func (p *ChatProvider) AdaptInstructions(raw string) string {
	return raw
}
