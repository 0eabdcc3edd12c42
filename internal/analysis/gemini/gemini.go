package gemini

import (
	"context"
	"fmt"
	"strings"

	"safehome_backend/internal/analysis"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	Model  string
	client *genai.Client
}

// New создает движок поверх genai SDK. Клиент живет все время работы
// приложения; Close - при остановке.
func New(ctx context.Context, key, model string) (*Engine, error) {
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, err
	}
	return &Engine{Model: model, client: client}, nil
}

func (e *Engine) Name() string { return "gemini" }

func (e *Engine) Close() error { return e.client.Close() }

func (e *Engine) Analyze(ctx context.Context, image []byte, mime string, opt analysis.Options) (analysis.Report, error) {
	system, err := analysis.BuildSystemPrompt(opt)
	if err != nil {
		return analysis.Report{}, err
	}

	model := e.client.GenerativeModel(e.Model)
	model.ResponseMIMEType = "application/json"
	temp := float32(0)
	model.Temperature = &temp

	resp, err := model.GenerateContent(ctx,
		genai.Text(system+"\n\n"+analysis.UserPrompt),
		genai.ImageData(imageFormat(mime), image),
	)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("%w: gemini: %v", analysis.ErrUpstream, err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return analysis.Report{}, err
	}
	return analysis.ParseReport(raw)
}

func (e *Engine) GenerateText(ctx context.Context, system, user string) (string, error) {
	model := e.client.GenerativeModel(e.Model)

	resp, err := model.GenerateContent(ctx, genai.Text(system+"\n\n"+user))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", analysis.ErrUpstream, err)
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: gemini: empty candidates", analysis.ErrMalformed)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: gemini: no text parts", analysis.ErrMalformed)
	}
	return b.String(), nil
}

// imageFormat - genai ждет формат без префикса "image/"
func imageFormat(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	default:
		return "jpeg"
	}
}
