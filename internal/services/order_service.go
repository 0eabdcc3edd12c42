package services

import (
	"context"
	"fmt"
	"sort"

	"safehome_backend/internal/config"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/models"
	"safehome_backend/internal/payment"
	"safehome_backend/internal/pricing"
	"safehome_backend/internal/repositories"
	"safehome_backend/pkg/apperrors"
)

type OrderService interface {
	ListPlans() []dto.PlanInfo
	CreateOrder(req *dto.CreateOrderRequest) (*dto.OrderResponse, error)

	// HandleReturn обрабатывает redirect от провайдера. Даже при
	// payment=success заказ помечается оплаченным только после
	// серверного подтверждения у провайдера.
	HandleReturn(ctx context.Context, outcome payment.Outcome) (*dto.PaymentReturnResponse, error)
}

type OrderServiceImpl struct {
	orderRepo repositories.OrderRepository
	verifier  payment.Verifier
	cfg       *config.Config
}

func NewOrderService(orderRepo repositories.OrderRepository, verifier payment.Verifier, cfg *config.Config) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		verifier:  verifier,
		cfg:       cfg,
	}
}

func (s *OrderServiceImpl) ListPlans() []dto.PlanInfo {
	plans := make([]dto.PlanInfo, 0, len(s.cfg.Plans))
	for code, p := range s.cfg.Plans {
		plans = append(plans, dto.PlanInfo{
			Code:            code,
			Name:            p.Name,
			BasePrice:       p.Base,
			DiscountedPrice: p.Discounted,
		})
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].BasePrice < plans[j].BasePrice })
	return plans
}

func (s *OrderServiceImpl) CreateOrder(req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	charge, err := pricing.Compute(models.PlanTier(req.Tier), req.ConsentGiven, s.cfg.Plans)
	if err != nil {
		return nil, err
	}

	order := &models.AnalysisOrder{
		PlanCode:        charge.PlanCode,
		ConsentGiven:    req.ConsentGiven,
		BasePrice:       charge.BasePrice,
		DiscountedPrice: charge.DiscountedPrice,
		FinalPrice:      charge.FinalPrice,
		Status:          models.OrderStatusCreated,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	urls := payment.BuildReturnURLs(
		s.cfg.Server.PublicURL+payment.ReturnPath,
		string(charge.PlanCode),
		req.ConsentGiven,
	)

	return &dto.OrderResponse{
		OrderID: order.ID,
		Charge: dto.ChargeResponse{
			BasePrice:       charge.BasePrice,
			DiscountedPrice: charge.DiscountedPrice,
			FinalPrice:      charge.FinalPrice,
			PlanCode:        string(charge.PlanCode),
		},
		ConsentGiven: req.ConsentGiven,
		SuccessURL:   urls.SuccessURL,
		FailURL:      urls.FailURL,
		ClientKey:    s.cfg.Toss.ClientKey,
	}, nil
}

func (s *OrderServiceImpl) HandleReturn(ctx context.Context, outcome payment.Outcome) (*dto.PaymentReturnResponse, error) {
	log := logger.FromContext(ctx)

	if outcome.Status != payment.OutcomeSuccess {
		if outcome.OrderID != "" {
			if err := s.orderRepo.MarkFailed(outcome.OrderID); err != nil {
				log.Error("Не удалось пометить заказ неуспешным", "order_id", outcome.OrderID, "error", err)
			}
		}
		return &dto.PaymentReturnResponse{
			OrderID: outcome.OrderID,
			Status:  string(models.OrderStatusFailed),
			Paid:    false,
			Message: "결제가 완료되지 않았습니다.",
		}, nil
	}

	order, err := s.orderRepo.FindByID(outcome.OrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("orders", "order not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Redirect-параметры - клиентский ввод. Сверяем у провайдера сумму
	// именно этого заказа.
	confirmErr := s.verifier.Confirm(ctx, outcome.PaymentKey, order.ID, order.FinalPrice)

	attempt := &models.PaymentAttempt{
		OrderID:    order.ID,
		PaymentKey: outcome.PaymentKey,
		Amount:     order.FinalPrice,
		Succeeded:  confirmErr == nil,
	}
	if confirmErr != nil {
		attempt.Detail = confirmErr.Error()
	}
	if err := s.orderRepo.LogPaymentAttempt(attempt); err != nil {
		log.Error("Не удалось записать попытку платежа", "order_id", order.ID, "error", err)
	}

	if confirmErr != nil {
		if err := s.orderRepo.MarkFailed(order.ID); err != nil {
			log.Error("Не удалось пометить заказ неуспешным", "order_id", order.ID, "error", err)
		}
		return nil, confirmErr
	}

	if err := s.orderRepo.MarkPaid(order.ID, outcome.PaymentKey); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("mark paid: %w", err))
	}

	log.Info("Платеж подтвержден провайдером", "order_id", order.ID, "amount", order.FinalPrice)

	return &dto.PaymentReturnResponse{
		OrderID: order.ID,
		Status:  string(models.OrderStatusPaid),
		Paid:    true,
	}, nil
}
