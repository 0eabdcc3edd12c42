package email

import "fmt"

// BuildCapsuleMessage - письмо с PDF-отчётом о состоянии жилья при въезде
func BuildCapsuleMessage(to string, expiryDate string, pdf []byte) Message {
	body := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 560px;">
  <h2>🏠 입주 하자 타임캡슐이 도착했어요</h2>
  <p>입주 시점의 집 상태가 사진과 함께 PDF로 보관되었습니다.</p>
  <p>계약 만료일(<b>%s</b>) 전에 퇴거 점검 시 이 문서를 근거 자료로 활용하세요.</p>
  <p style="color: #888; font-size: 12px;">본 문서는 촬영 시각 워터마크가 포함되어 있습니다.</p>
</div>`, expiryDate)

	return Message{
		To:       to,
		Subject:  "[안심홈즈] 입주 하자 타임캡슐 보관 완료",
		HTMLBody: body,
		Attachments: []Attachment{
			{Filename: "move_in_capsule.pdf", ContentType: "application/pdf", Data: pdf},
		},
	}
}

// BuildRetargetMessage - напоминание за 60 дней до конца договора
func BuildRetargetMessage(to string, expiryDate string) Message {
	body := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 560px;">
  <h2>📅 계약 만료까지 약 60일 남았어요</h2>
  <p>계약 만료일: <b>%s</b></p>
  <p>보증금을 안전하게 돌려받으려면 지금부터 준비가 필요합니다.</p>
  <ul>
    <li>임대인에게 갱신 거절/퇴거 의사를 내용증명으로 통보</li>
    <li>입주 당시 타임캡슐 사진과 현재 상태 비교</li>
    <li>보증금 반환 지연 시 임차권등기명령 검토</li>
  </ul>
  <p>안심홈즈에서 맞춤 해결책 리포트를 받아보세요.</p>
</div>`, expiryDate)

	return Message{
		To:       to,
		Subject:  "[안심홈즈] 계약 만료 D-60, 보증금 반환 준비를 시작하세요",
		HTMLBody: body,
	}
}
