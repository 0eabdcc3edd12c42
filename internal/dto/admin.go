package dto

// AdminLoginRequest - вход админа; секрет сравнивается с bcrypt-хешем
// из конфига, не строковым равенством
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminLoginResponse - JWT с истечением
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // секунды
}

// AnalyticsRecord - строка аналитики, прочитанная обратно из таблицы
type AnalyticsRecord struct {
	Timestamp    string `json:"timestamp"`
	District     string `json:"district"`
	Deposit      string `json:"deposit"`
	Rent         string `json:"rent"`
	RiskScore    string `json:"risk_score"`
	ToxicClauses string `json:"toxic_clauses"`
	PlanCode     string `json:"plan_code"`
	OrderID      string `json:"order_id"`
}

// ExpiringCapsule - капсула, у которой аренда истекает в окне ретаргетинга
type ExpiringCapsule struct {
	RecordID   string `json:"record_id"`
	Email      string `json:"email"`
	ExpiryDate string `json:"expiry_date"`
	DaysLeft   int    `json:"days_left"`
	Retargeted bool   `json:"retargeted"`
}
