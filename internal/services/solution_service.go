package services

import (
	"context"
	"fmt"
	"time"

	"safehome_backend/internal/analysis"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/report"
	"safehome_backend/pkg/apperrors"
)

// Роли для текстового пути: один и тот же конфликт превращается в два
// текста - сообщение в мессенджер и тело внесудебной претензии
const (
	messengerRole = `당신은 세입자의 입장을 대변하는 커뮤니케이션 전문가입니다.
집주인에게 보낼 카카오톡 메시지를 작성하세요.
- 정중하지만 요구사항이 분명해야 합니다.
- 3~5문장, 존댓말.
- 법조문 인용 없이 일상적인 언어를 사용하세요.`

	legalRole = `당신은 주택임대차보호법에 정통한 법률 문서 작성 전문가입니다.
세입자가 임대인에게 보낼 내용증명 본문을 작성하세요.
- 관련 법조항(주택임대차보호법 등)을 구체적으로 인용하세요.
- 사실관계, 요구사항, 불이행 시 조치 예정 사항 순서로 구성하세요.
- 격식체를 사용하고, 감정적 표현은 배제하세요.`
)

var issueLabels = map[string]string{
	"repair":  "시설 수리 요구",
	"deposit": "보증금 반환 요구",
	"renewal": "계약 갱신 관련 분쟁",
	"noise":   "소음 등 생활 방해",
	"other":   "기타 임대차 분쟁",
}

type SolutionService interface {
	// GenerateSolution делает два текстовых вызова модели на один запрос
	GenerateSolution(ctx context.Context, req *dto.SolutionRequest) (*dto.SolutionResponse, error)

	// BuildLetter собирает PDF внесудебной претензии из готовых блоков
	BuildLetter(req *dto.LegalLetterRequest) ([]byte, error)
}

type SolutionServiceImpl struct {
	analyzer   *analysis.Analyzer
	pdfBuilder *report.PDFBuilder
}

func NewSolutionService(analyzer *analysis.Analyzer, pdfBuilder *report.PDFBuilder) SolutionService {
	return &SolutionServiceImpl{
		analyzer:   analyzer,
		pdfBuilder: pdfBuilder,
	}
}

func (s *SolutionServiceImpl) GenerateSolution(ctx context.Context, req *dto.SolutionRequest) (*dto.SolutionResponse, error) {
	label, ok := issueLabels[req.IssueType]
	if !ok {
		return nil, apperrors.NewBadRequestError("지원하지 않는 분쟁 유형입니다.")
	}

	user := fmt.Sprintf("분쟁 유형: %s\n상황 설명: %s", label, req.Detail)

	messenger, err := s.analyzer.GenerateText(ctx, messengerRole, user)
	if err != nil {
		return nil, apperrors.UpstreamError("solution", err)
	}

	legal, err := s.analyzer.GenerateText(ctx, legalRole, user)
	if err != nil {
		return nil, apperrors.UpstreamError("solution", err)
	}

	return &dto.SolutionResponse{
		MessengerDraft: messenger,
		LegalDraft:     legal,
	}, nil
}

func (s *SolutionServiceImpl) BuildLetter(req *dto.LegalLetterRequest) ([]byte, error) {
	pdf, err := s.pdfBuilder.BuildLegalLetter(report.LegalLetter{
		Sender:   req.SenderName,
		Receiver: req.ReceiverName,
		Address:  req.Address,
		Title:    req.Title,
		Body:     req.Body,
		Date:     time.Now(),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pdf, nil
}
