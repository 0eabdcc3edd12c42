package dto

// CreateOrderRequest - выбор плана пользователем. Неизменяем после
// отправки на шаг оплаты.
type CreateOrderRequest struct {
	Tier         string `json:"tier" validate:"required,is-plan-tier"`
	ConsentGiven bool   `json:"consent_given"`
}

// ChargeResponse - детерминированный расчет из прайс-таблицы
type ChargeResponse struct {
	BasePrice       int64  `json:"base_price"`
	DiscountedPrice int64  `json:"discounted_price"`
	FinalPrice      int64  `json:"final_price"`
	PlanCode        string `json:"plan_code"`
}

// OrderResponse - созданный заказ плюс все, что нужно фронту для виджета
// оплаты (client key и return URL-ы; секретный ключ наружу не уходит)
type OrderResponse struct {
	OrderID      string         `json:"order_id"`
	Charge       ChargeResponse `json:"charge"`
	ConsentGiven bool           `json:"consent_given"`
	SuccessURL   string         `json:"success_url"`
	FailURL      string         `json:"fail_url"`
	ClientKey    string         `json:"client_key"`
}

// PlanInfo - публичная информация о плане
type PlanInfo struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	BasePrice       int64  `json:"base_price"`
	DiscountedPrice int64  `json:"discounted_price"`
}

// PaymentReturnResponse - результат обработки redirect от провайдера
type PaymentReturnResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Paid    bool   `json:"paid"`
	Message string `json:"message,omitempty"`
}
