package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/payment"
	"safehome_backend/internal/services"
)

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  base,
		orderService: orderService,
	}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.ListPlans)
	rg.POST("/orders", h.CreateOrder)
	rg.GET("/payments/return", h.PaymentReturn)
}

// ListPlans отдает публичную прайс-таблицу
func (h *OrderHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.orderService.ListPlans()})
}

// CreateOrder фиксирует выбор плана и согласие, возвращает расчет и
// return URL-ы для платежного виджета
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.orderService.CreateOrder(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Выбор плана живет и в сессии: redirect возвращается без тела запроса
	if sess := h.GetSession(c); sess != nil {
		sess.PlanCode = resp.Charge.PlanCode
		sess.ConsentGiven = req.ConsentGiven
		sess.OrderID = resp.OrderID
	}

	c.JSON(http.StatusCreated, resp)
}

// PaymentReturn принимает браузерный redirect от провайдера платежа.
// Параметры запроса - клиентский ввод; подтверждение делается на сервере.
func (h *OrderHandler) PaymentReturn(c *gin.Context) {
	outcome := payment.ParseReturnQuery(c.Request.URL.Query())

	// Провайдер не возвращает наш orderID, если виджет его не пробросил;
	// добираем из сессии
	if outcome.OrderID == "" {
		if sess := h.GetSession(c); sess != nil {
			outcome.OrderID = sess.OrderID
		}
	}

	logger.CtxInfo(c.Request.Context(), "Payment return received",
		"status", string(outcome.Status),
		"plan", outcome.PlanCode,
		"order_id", outcome.OrderID,
	)

	resp, err := h.orderService.HandleReturn(c.Request.Context(), outcome)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
