package analysis

import (
	"fmt"

	"safehome_backend/internal/models"
)

// promptProfile - зависящая от плана часть инструкции. Таблица вместо
// ветвлений: новый план добавляется записью, не кодом.
type promptProfile struct {
	Role   string
	Output string
}

var tierProfiles = map[models.PlanTier]promptProfile{
	models.PlanTierPremium: {
		Role: "당신은 대한민국 최고의 부동산 전문 변호사입니다. 의뢰인의 보증금을 지키기 위해 아주 깐깐하게 분석해야 합니다.",
		Output: `[Premium 리포트 요구사항]
1. 독소조항 심층 분석: 발견된 조항이 법적으로 왜 위험한지 판례나 주택임대차보호법을 인용해서 설명하세요.
2. 대응 전략(Action Plan): 이 조항을 무력화하기 위해 세입자가 특약에 추가해야 할 문구를 구체적으로 제시하세요.
3. 전문가 총평: 계약 안전 점수와 함께 최종 계약 추천 여부를 100자 이내로 요약하세요.`,
	},
	models.PlanTierBasic: {
		Role: "당신은 부동산 계약 도우미입니다. 핵심적인 문제점만 빠르게 짚어주세요.",
		Output: `[Basic 리포트 요구사항]
1. 독소조항이 있는지 없는지 O/X 위주로 간단히 체크하세요.
2. 문제가 있다면 수정 요청 문자 초안을 작성하세요.`,
	},
}

var toneInstructions = map[models.Tone]string{
	models.ToneSoft: "부드럽게 (부탁조)",
	models.ToneFirm: "단호하게 (법적근거)",
}

// reportSchema - жесткая схема ответа; любой текст вне JSON - ошибка
const reportSchema = `{
  "user_report": "분석 결과 전문 (Markdown 형식으로 가독성 있게)",
  "db_data": {
    "district": "구/동",
    "deposit": 0,
    "rent": 0,
    "toxic_clauses": ["조항1", "조항2"],
    "risk_score": 0
  }
}`

// BuildSystemPrompt собирает системную инструкцию: роль и глубина по плану,
// тон, маскировка персональных данных, директива строгого JSON.
func BuildSystemPrompt(opt Options) (string, error) {
	profile, ok := tierProfiles[opt.PlanCode]
	if !ok {
		return "", fmt.Errorf("no prompt profile for plan %s", opt.PlanCode)
	}

	tone, ok := toneInstructions[opt.Tone]
	if !ok {
		tone = toneInstructions[models.ToneSoft]
	}

	return fmt.Sprintf(`%s

사용자가 업로드한 전세 계약서 이미지를 분석하여 아래 JSON 포맷으로 응답하세요.
(마크다운 태그 금지, 순수 JSON만 출력)

%s

- 문자 말투: %s
- 이미지 속 개인정보(이름, 주민번호, 전화번호)는 반드시 가려서 출력하세요.

[JSON 출력 필드]
%s`, profile.Role, profile.Output, tone, reportSchema), nil
}

// UserPrompt - пользовательская часть запроса (фиксированная)
const UserPrompt = "분석 부탁해. 개인정보는 가려줘."
