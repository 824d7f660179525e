package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const MsgTextRuNotConfigured = "TEXTRU API key not configured. Set TEXTRU_API_KEY env variable."

type TextRuClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewTextRuClient(apiKey, endpoint string, timeout time.Duration) *TextRuClient {
	return &TextRuClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *TextRuClient) Check(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return MsgTextRuNotConfigured, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("userkey", c.apiKey)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("text.ru request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("text.ru read body: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		return fmt.Sprintf("Text.ru API error %d: %s", resp.StatusCode, raw), nil
	}

	return formatCheckResult(raw), nil
}

// formatCheckResult: JSON переформатируем с отступами (порядок ключей и числа
// не трогаем), всё остальное отдаём как есть
func formatCheckResult(raw []byte) string {
	if !json.Valid(raw) {
		return string(raw)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
