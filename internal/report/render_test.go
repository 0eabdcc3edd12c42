package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"safehome_backend/internal/analysis"
)

func fullReport() analysis.Report {
	return analysis.Report{
		UserReport: "## 분석 결과\n\n보증금 보호를 위해 전세권 설정을 권장합니다.",
		DBData: analysis.Structured{
			District:     "마포구",
			Deposit:      50000000,
			Rent:         500000,
			ToxicClauses: []string{"원상복구 특약"},
			RiskScore:    72,
		},
	}
}

func TestRender_FullReport(t *testing.T) {
	md := Render(fullReport())

	assert.Contains(t, md, "마포구")
	assert.Contains(t, md, "50,000,000원")
	assert.Contains(t, md, "500,000원")
	assert.Contains(t, md, "72 / 100")
	assert.Contains(t, md, "원상복구 특약")
	assert.Contains(t, md, "전세권 설정을 권장")
}

func TestRender_MissingFieldsUsePlaceholder(t *testing.T) {
	md := Render(analysis.Report{})

	assert.Contains(t, md, "정보 없음")
	assert.Contains(t, md, "발견된 독소조항이 없습니다")
	// пустые поля не должны давать пустых ячеек таблицы
	assert.NotContains(t, md, "|  |")
}

func TestExport_MatchesRender(t *testing.T) {
	rep := fullReport()
	assert.Equal(t, Render(rep), string(Export(rep)))
}

func TestWon_Formatting(t *testing.T) {
	assert.Equal(t, "990원", won(990))
	assert.Equal(t, "3,900원", won(3900))
	assert.Equal(t, "50,000,000원", won(50000000))
	assert.Equal(t, "정보 없음", won(0))
}
