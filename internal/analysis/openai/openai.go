package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"safehome_backend/internal/analysis"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type Engine struct {
	APIKey string
	Model  string
	httpc  *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: key,
		Model:  model,
		httpc:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *Engine) Name() string { return "openai" }

func (e *Engine) Analyze(ctx context.Context, image []byte, mime string, opt analysis.Options) (analysis.Report, error) {
	if e.APIKey == "" {
		return analysis.Report{}, fmt.Errorf("OPENAI_API_KEY is empty")
	}

	system, err := analysis.BuildSystemPrompt(opt)
	if err != nil {
		return analysis.Report{}, err
	}

	b64 := base64.StdEncoding.EncodeToString(image)
	dataURL := "data:" + mime + ";base64," + b64

	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{"role": "system", "content": system},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": analysis.UserPrompt},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL, "detail": "high"}},
				},
			},
		},
		"max_tokens":  4000,
		"temperature": 0,
		// Жесткий JSON-режим: модель настроена выдавать только
		// машинно-разбираемый ответ
		"response_format": map[string]any{"type": "json_object"},
	}

	raw, err := e.complete(ctx, body)
	if err != nil {
		return analysis.Report{}, err
	}
	return analysis.ParseReport(raw)
}

func (e *Engine) GenerateText(ctx context.Context, system, user string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}

	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{"role": "system", "content": system},
			map[string]any{"role": "user", "content": user},
		},
		"temperature": 0.7,
	}
	return e.complete(ctx, body)
}

// complete делает один вызов chat/completions и возвращает текст первого choice
func (e *Engine) complete(ctx context.Context, body map[string]any) (string, error) {
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: openai %d: %s", analysis.ErrUpstream, resp.StatusCode, strings.TrimSpace(truncateBytes(x, 300)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrMalformed, err)
	}
	if len(raw.Choices) == 0 || strings.TrimSpace(raw.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty choices", analysis.ErrMalformed)
	}
	return raw.Choices[0].Message.Content, nil
}

func truncateBytes(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
