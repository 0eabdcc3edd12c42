package models

import "time"

// AnalysisOrder - заказ анализа договора. Создается до redirect на оплату,
// переводится в paid ТОЛЬКО серверным подтверждением у провайдера
// (redirect-параметры сами по себе статус не меняют).
type AnalysisOrder struct {
	BaseModel
	PlanCode     PlanTier `gorm:"not null;index"`
	ConsentGiven bool     `gorm:"not null;default:false"`

	// Цены на момент создания заказа, полные KRW
	BasePrice       int64 `gorm:"not null"`
	DiscountedPrice int64 `gorm:"not null"`
	FinalPrice      int64 `gorm:"not null"`

	Status        OrderStatus   `gorm:"default:'created';index"`
	PaymentStatus PaymentStatus `gorm:"default:'pending'"`

	// Ключ платежа от провайдера (приходит в redirect, сверяется confirm-вызовом)
	PaymentKey string `gorm:"index"`
	PaidAt     *time.Time

	// Флаг админского прохода без оплаты; ставится только
	// аутентифицированным админом
	AdminBypass bool `gorm:"default:false"`

	AnalyzedAt *time.Time
	RiskScore  *int

	// Готовый markdown-отчет; отдается по GET без повторного вызова модели
	ReportMarkdown string `gorm:"type:text"`
}

// PaymentAttempt - журнал попыток подтверждения платежа (для разбора
// расхождений между redirect и confirm)
type PaymentAttempt struct {
	BaseModel
	OrderID    string `gorm:"not null;index"`
	PaymentKey string
	Amount     int64
	Succeeded  bool
	Detail     string

	// Relations
	Order AnalysisOrder `gorm:"foreignKey:OrderID"`
}
