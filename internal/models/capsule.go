package models

import "time"

// CapsuleRecord - регистрация "таймкапсулы" заезда: кому отправлен PDF-отчет
// и когда истекает договор аренды. Worker ретаргетинга читает отсюда.
type CapsuleRecord struct {
	BaseModel
	Email      string    `gorm:"not null;index"`
	ExpiryDate time.Time `gorm:"not null;index"`
	PhotoCount int       `gorm:"not null"`

	// Письмо с напоминанием о скором истечении отправлено
	RetargetSentAt *time.Time
}
