package dto

// CapsuleForm - multipart форма таймкапсулы: фото идут частями "photos",
// email и дата окончания аренды - полями формы
type CapsuleForm struct {
	Email      string `form:"email" validate:"required,email"`
	ExpiryDate string `form:"expiry_date" validate:"required,datetime=2006-01-02"`
}

// CapsuleResponse - итог запечатывания капсулы
type CapsuleResponse struct {
	RecordID   string `json:"record_id"`
	PhotoCount int    `json:"photo_count"`
	EmailSent  bool   `json:"email_sent"`
	Registered bool   `json:"registered"` // строка в облачной таблице (best-effort)
	FileName   string `json:"file_name"`
}
