package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	MsgOpenAINotConfigured = "OpenAI API key is not configured. Set OPENAI_API_KEY environment variable."
	MsgOpenAIBadResponse   = "Ошибка обработки ответа OpenAI."

	essaySystemPrompt = "Ты — ассистент, который пишет итоговые сочинения строго по заданной структуре. " +
		"Следуй структуре, выделяй абзацы и пиши связный, академичный стиль."

	essayTemperature = 0.6
	essayMaxTokens   = 1200
)

type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, outline string) (string, error) {
	if c.apiKey == "" {
		return MsgOpenAINotConfigured, nil
	}

	b, err := json.Marshal(openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: essaySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: outline},
		},
		Temperature: essayTemperature,
		MaxTokens:   essayMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(b),
	)
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		return fmt.Sprintf("OpenAI API error %d: %s", resp.StatusCode, raw), nil
	}

	var out openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil || len(out.Choices) == 0 {
		return MsgOpenAIBadResponse, nil
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
