package analysis

import (
	"context"
	"errors"
	"time"

	"safehome_backend/internal/logger"
)

// Analyzer - политика вызова движков: основной движок, один повтор на
// транспортной ошибке, затем запасной движок. Повторы безопасны - вызов
// read-only по изображению и не имеет побочных эффектов до шага
// персистентности. ErrMalformed не ретраится никогда: второй разбор того
// же мусора ничего не изменит.
type Analyzer struct {
	Primary  Engine
	Fallback Engine // может быть nil

	// Потолок на один внешний вызов
	CallTimeout time.Duration
}

func NewAnalyzer(primary, fallback Engine) *Analyzer {
	return &Analyzer{
		Primary:     primary,
		Fallback:    fallback,
		CallTimeout: 30 * time.Second,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, image []byte, mime string, opt Options) (Report, error) {
	report, err := a.analyzeWith(ctx, a.Primary, image, mime, opt)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, ErrUpstream) {
		return Report{}, err
	}

	// Один повтор на том же движке
	logger.CtxWarn(ctx, "primary engine failed, retrying once", "engine", a.Primary.Name(), "error", err.Error())
	report, err = a.analyzeWith(ctx, a.Primary, image, mime, opt)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, ErrUpstream) || a.Fallback == nil {
		return Report{}, err
	}

	logger.CtxWarn(ctx, "switching to fallback engine", "engine", a.Fallback.Name())
	return a.analyzeWith(ctx, a.Fallback, image, mime, opt)
}

// GenerateText применяет ту же политику к текстовому пути
func (a *Analyzer) GenerateText(ctx context.Context, system, user string) (string, error) {
	text, err := a.generateWith(ctx, a.Primary, system, user)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, ErrUpstream) || a.Fallback == nil {
		return "", err
	}
	return a.generateWith(ctx, a.Fallback, system, user)
}

func (a *Analyzer) analyzeWith(ctx context.Context, e Engine, image []byte, mime string, opt Options) (Report, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.CallTimeout)
	defer cancel()

	start := time.Now()
	report, err := e.Analyze(callCtx, image, mime, opt)
	logger.UpstreamLog(e.Name(), "analyze", time.Since(start), err)
	return report, err
}

func (a *Analyzer) generateWith(ctx context.Context, e Engine, system, user string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.CallTimeout)
	defer cancel()

	start := time.Now()
	text, err := e.GenerateText(callCtx, system, user)
	logger.UpstreamLog(e.Name(), "generate_text", time.Since(start), err)
	return text, err
}
