package analysis

import (
	"context"
	"errors"

	"safehome_backend/internal/models"
)

// Report - единственный результат одного вызова анализа; после создания
// не мутируется.
type Report struct {
	UserReport string     `json:"user_report"` // markdown для показа пользователю
	DBData     Structured `json:"db_data"`
}

// Structured - машинная часть отчета (в аналитику уходит только она,
// без текста и без изображения)
type Structured struct {
	District     string   `json:"district"`
	Deposit      int64    `json:"deposit"`
	Rent         int64    `json:"rent"`
	ToxicClauses []string `json:"toxic_clauses"`
	RiskScore    int      `json:"risk_score"`
}

// Options - параметры одного вызова
type Options struct {
	PlanCode models.PlanTier
	Tone     models.Tone
}

// Ошибки таксономии анализа. Выше по стеку оборачиваются в apperrors.
var (
	// ErrUpstream - сам вызов коллаборатора отказал (сеть, auth, quota, timeout)
	ErrUpstream = errors.New("analysis upstream call failed")

	// ErrMalformed - ответ пришел, но не разобрался по схеме отчета
	ErrMalformed = errors.New("analysis reply does not match the report schema")
)

// Engine - внешний мультимодальный коллаборатор
type Engine interface {
	Name() string

	// Analyze делает ровно один исходящий вызов с изображением договора.
	// Локальное состояние не мутирует.
	Analyze(ctx context.Context, image []byte, mime string, opt Options) (Report, error)

	// GenerateText - текстовый путь без изображения (residence solution)
	GenerateText(ctx context.Context, system, user string) (string, error)
}
