package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences убирает обрамляющие маркеры форматирования вокруг
// валидного payload-а (модели иногда заворачивают JSON в ограждения,
// несмотря на директиву)
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseReport разбирает сырой текст ответа модели по схеме отчета.
// Частичный отчет не строится: любое несоответствие - ErrMalformed.
func ParseReport(raw string) (Report, error) {
	clean := StripCodeFences(raw)
	if clean == "" {
		return Report{}, fmt.Errorf("%w: empty reply", ErrMalformed)
	}

	var r Report
	if err := json.Unmarshal([]byte(clean), &r); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if r.UserReport == "" {
		return Report{}, fmt.Errorf("%w: user_report is empty", ErrMalformed)
	}
	if r.DBData.RiskScore < 0 || r.DBData.RiskScore > 100 {
		return Report{}, fmt.Errorf("%w: risk_score %d out of [0,100]", ErrMalformed, r.DBData.RiskScore)
	}
	return r, nil
}

// SniffImageMIME определяет MIME изображения по сигнатуре
func SniffImageMIME(b []byte) string {
	switch {
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return "image/jpeg"
	case len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	default:
		return ""
	}
}

// IsSupportedImageMIME - форматы, которые принимают оба движка
func IsSupportedImageMIME(m string) bool {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}
