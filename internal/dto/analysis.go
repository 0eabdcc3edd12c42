package dto

// AnalyzeForm - multipart форма запроса анализа: файл договора идет
// отдельной частью "contract"
type AnalyzeForm struct {
	OrderID string `form:"order_id" validate:"required,uuid4"`
	Tone    string `form:"tone" validate:"required,is-tone"`
}

// StructuredReport - машинная часть отчета (идет в аналитику при согласии)
type StructuredReport struct {
	District     string   `json:"district"`
	Deposit      int64    `json:"deposit"`
	Rent         int64    `json:"rent"`
	ToxicClauses []string `json:"toxic_clauses"`
	RiskScore    int      `json:"risk_score"`
}

// AnalysisResponse - результат анализа для пользователя
type AnalysisResponse struct {
	OrderID    string           `json:"order_id"`
	PlanCode   string           `json:"plan_code"`
	UserReport string           `json:"user_report"` // markdown
	Structured StructuredReport `json:"structured"`
	Persisted  bool             `json:"persisted"`
}
