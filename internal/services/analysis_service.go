package services

import (
	"context"
	"time"

	"safehome_backend/internal/analysis"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/models"
	"safehome_backend/internal/report"
	"safehome_backend/internal/repositories"
	"safehome_backend/internal/sheets"
	"safehome_backend/pkg/apperrors"
)

type AnalysisService interface {
	// Analyze прогоняет изображение договора через модель. Вызов
	// допускается только для оплаченного заказа (или admin bypass).
	Analyze(ctx context.Context, form *dto.AnalyzeForm, image []byte) (*dto.AnalysisResponse, error)

	// ReportMarkdown возвращает сохраненный отчет без повторного вызова модели
	ReportMarkdown(orderID string) (string, error)
}

type AnalysisServiceImpl struct {
	orderRepo repositories.OrderRepository
	analyzer  *analysis.Analyzer
	store     *sheets.Store
}

func NewAnalysisService(orderRepo repositories.OrderRepository, analyzer *analysis.Analyzer, store *sheets.Store) AnalysisService {
	return &AnalysisServiceImpl{
		orderRepo: orderRepo,
		analyzer:  analyzer,
		store:     store,
	}
}

func (s *AnalysisServiceImpl) Analyze(ctx context.Context, form *dto.AnalyzeForm, image []byte) (*dto.AnalysisResponse, error) {
	log := logger.FromContext(ctx)

	order, err := s.orderRepo.FindByID(form.OrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("orders", "order not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if order.Status != models.OrderStatusPaid && !order.AdminBypass {
		return nil, apperrors.UntrustedOutcomeError("결제가 확인되지 않은 주문입니다.")
	}

	mime := analysis.SniffImageMIME(image)
	if !analysis.IsSupportedImageMIME(mime) {
		return nil, apperrors.NewBadRequestError("계약서 파일은 JPEG 또는 PNG 이미지여야 합니다.")
	}

	rep, err := s.analyzer.Analyze(ctx, image, mime, analysis.Options{
		PlanCode: order.PlanCode,
		Tone:     models.Tone(form.Tone),
	})
	if err != nil {
		// Сбой анализа всегда виден пользователю: это то, за что он заплатил
		if apperrors.Is(err, analysis.ErrMalformed) {
			return nil, apperrors.MalformedResponseError(err)
		}
		return nil, apperrors.UpstreamError("analysis", err)
	}

	markdown := report.Render(rep)
	if err := s.orderRepo.MarkAnalyzed(order.ID, rep.DBData.RiskScore, markdown); err != nil {
		log.Error("Не удалось сохранить результат анализа", "order_id", order.ID, "error", err)
	}

	// Аналитика пишется только при согласии; сбой таблицы не ломает выдачу
	persisted := s.store.AppendAnalysisRow(ctx, sheets.AnalysisRow{
		Timestamp:    time.Now(),
		District:     rep.DBData.District,
		Deposit:      rep.DBData.Deposit,
		Rent:         rep.DBData.Rent,
		RiskScore:    rep.DBData.RiskScore,
		ToxicClauses: rep.DBData.ToxicClauses,
		PlanCode:     string(order.PlanCode),
		OrderID:      order.ID,
	}, order.ConsentGiven)

	return &dto.AnalysisResponse{
		OrderID:    order.ID,
		PlanCode:   string(order.PlanCode),
		UserReport: markdown,
		Structured: dto.StructuredReport{
			District:     rep.DBData.District,
			Deposit:      rep.DBData.Deposit,
			Rent:         rep.DBData.Rent,
			ToxicClauses: rep.DBData.ToxicClauses,
			RiskScore:    rep.DBData.RiskScore,
		},
		Persisted: persisted,
	}, nil
}

func (s *AnalysisServiceImpl) ReportMarkdown(orderID string) (string, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return "", apperrors.NewNotFoundError("orders", "order not found")
		}
		return "", apperrors.InternalError(err)
	}
	if order.Status != models.OrderStatusAnalyzed || order.ReportMarkdown == "" {
		return "", apperrors.NewNotFoundError("orders", "report is not ready")
	}
	return order.ReportMarkdown, nil
}
