package handlers

import (
	"safehome_backend/internal/config"
	"safehome_backend/internal/services"
	"safehome_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	OrderHandler    *OrderHandler
	AnalysisHandler *AnalysisHandler
	CapsuleHandler  *CapsuleHandler
	SolutionHandler *SolutionHandler
	AdminHandler    *AdminHandler
	HealthHandler   *HealthHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator, cfg *config.Config) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		OrderHandler:    NewOrderHandler(base, container.OrderService),
		AnalysisHandler: NewAnalysisHandler(base, container.AnalysisService),
		CapsuleHandler:  NewCapsuleHandler(base, container.CapsuleService),
		SolutionHandler: NewSolutionHandler(base, container.SolutionService),
		AdminHandler:    NewAdminHandler(base, container.AdminService, cfg.JWT.Secret),
		HealthHandler:   NewHealthHandler(),
	}
}
