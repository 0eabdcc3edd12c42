// Package report форматирует результат анализа для экрана и выгрузки.
package report

import (
	"fmt"
	"strings"

	"safehome_backend/internal/analysis"
)

const placeholder = "정보 없음"

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func won(v int64) string {
	if v <= 0 {
		return placeholder
	}
	// 50000000 -> "50,000,000원"
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "원"
}

// Render собирает markdown-отчёт. Отсутствующие поля заменяются
// заглушкой, а не пустотой - пользователь должен видеть, что поле было
func Render(rep analysis.Report) string {
	var b strings.Builder

	b.WriteString("# 🏠 안심홈즈 계약서 분석 리포트\n\n")

	b.WriteString("## 계약 정보\n\n")
	b.WriteString("| 항목 | 내용 |\n|---|---|\n")
	fmt.Fprintf(&b, "| 지역 | %s |\n", orPlaceholder(rep.DBData.District))
	fmt.Fprintf(&b, "| 보증금 | %s |\n", won(rep.DBData.Deposit))
	fmt.Fprintf(&b, "| 월세 | %s |\n", won(rep.DBData.Rent))
	fmt.Fprintf(&b, "| 위험도 점수 | %d / 100 |\n\n", rep.DBData.RiskScore)

	b.WriteString("## ⚠️ 독소조항\n\n")
	if len(rep.DBData.ToxicClauses) == 0 {
		b.WriteString("- 발견된 독소조항이 없습니다.\n")
	} else {
		for _, clause := range rep.DBData.ToxicClauses {
			fmt.Fprintf(&b, "- %s\n", clause)
		}
	}
	b.WriteString("\n## 상세 분석\n\n")
	b.WriteString(orPlaceholder(rep.UserReport))
	b.WriteString("\n")

	return b.String()
}

// Export возвращает отчёт как скачиваемый .md
func Export(rep analysis.Report) []byte {
	return []byte(Render(rep))
}
