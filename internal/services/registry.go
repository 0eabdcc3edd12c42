package services

import (
	"safehome_backend/internal/analysis"
	"safehome_backend/internal/config"
	"safehome_backend/internal/email"
	"safehome_backend/internal/imageprocessor"
	"safehome_backend/internal/payment"
	"safehome_backend/internal/report"
	"safehome_backend/internal/repositories"
	"safehome_backend/internal/sheets"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	OrderService    OrderService
	AnalysisService AnalysisService
	CapsuleService  CapsuleService
	SolutionService SolutionService
	AdminService    AdminService
	EmailService    email.Provider
}

// NewServiceContainer собирает сервисный слой из инфраструктурных
// зависимостей. Порядок создания важен только для читателя.
func NewServiceContainer(
	orderRepo repositories.OrderRepository,
	capsuleRepo repositories.CapsuleRepository,
	analyzer *analysis.Analyzer,
	store *sheets.Store,
	verifier payment.Verifier,
	provider email.Provider,
	cfg *config.Config,
) *ServiceContainer {
	processor := imageprocessor.NewProcessor(85)
	pdfBuilder := report.NewPDFBuilder(cfg.Report.FontPath)

	return &ServiceContainer{
		OrderService:    NewOrderService(orderRepo, verifier, cfg),
		AnalysisService: NewAnalysisService(orderRepo, analyzer, store),
		CapsuleService:  NewCapsuleService(capsuleRepo, processor, pdfBuilder, provider, store),
		SolutionService: NewSolutionService(analyzer, pdfBuilder),
		AdminService:    NewAdminService(orderRepo, capsuleRepo, store, &EmailRetargetSender{Provider: provider}, cfg),
		EmailService:    provider,
	}
}
