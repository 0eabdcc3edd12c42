package dto

// SolutionRequest - описание конфликта с собственником
type SolutionRequest struct {
	IssueType string `json:"issue_type" validate:"required,is-issue-type"`
	Detail    string `json:"detail" validate:"required,min=10,max=2000"`
}

// SolutionResponse - два варианта текста: мессенджер и формальное
// требование (내용증명)
type SolutionResponse struct {
	MessengerDraft string `json:"messenger_draft"`
	LegalDraft     string `json:"legal_draft"`
}

// LegalLetterRequest - реквизиты для PDF внесудебной претензии
type LegalLetterRequest struct {
	SenderName   string `json:"sender_name" validate:"required,max=100"`
	ReceiverName string `json:"receiver_name" validate:"required,max=100"`
	Address      string `json:"address" validate:"required,max=300"`
	Title        string `json:"title" validate:"required,max=200"`
	Body         string `json:"body" validate:"required,max=10000"`
}
