package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"safehome_backend/internal/analysis"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/models"
	"safehome_backend/internal/sheets"
	"safehome_backend/pkg/apperrors"
)

// jpegMagic - минимальный префикс, который SniffImageMIME распознает как JPEG
var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

type stubEngine struct {
	report analysis.Report
	err    error
	text   string
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Analyze(_ context.Context, _ []byte, _ string, _ analysis.Options) (analysis.Report, error) {
	if s.err != nil {
		return analysis.Report{}, s.err
	}
	return s.report, nil
}

func (s *stubEngine) GenerateText(_ context.Context, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type countingAppender struct {
	calls int
}

func (c *countingAppender) Append(_ context.Context, _ string, _ []interface{}) error {
	c.calls++
	return nil
}

func goodReport() analysis.Report {
	return analysis.Report{
		UserReport: "## 분석 결과\n위험 조항이 발견되었습니다.",
		DBData: analysis.Structured{
			District:     "마포구",
			Deposit:      50000000,
			Rent:         500000,
			ToxicClauses: []string{"원상복구 특약"},
			RiskScore:    72,
		},
	}
}

func analysisFixture(t *testing.T, engine analysis.Engine, consent bool) (AnalysisService, *fakeOrderRepo, *countingAppender, string) {
	t.Helper()

	repo := newFakeOrderRepo()
	order := &models.AnalysisOrder{
		PlanCode:     models.PlanTierPremium,
		ConsentGiven: consent,
		FinalPrice:   2900,
		Status:       models.OrderStatusPaid,
	}
	assert.NoError(t, repo.Create(order))

	appender := &countingAppender{}
	store := sheets.NewStore(appender, nil, "analytics!A:H", "capsules!A:E")

	svc := NewAnalysisService(repo, analysis.NewAnalyzer(engine, nil), store)
	return svc, repo, appender, order.ID
}

func TestAnalyze_HappyPathPersistsWithConsent(t *testing.T) {
	svc, repo, appender, orderID := analysisFixture(t, &stubEngine{report: goodReport()}, true)

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, jpegMagic)
	assert.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Equal(t, 72, resp.Structured.RiskScore)
	assert.Contains(t, resp.UserReport, "마포구")
	assert.Equal(t, 1, appender.calls)

	stored, _ := repo.FindByID(orderID)
	assert.Equal(t, models.OrderStatusAnalyzed, stored.Status)
	assert.Equal(t, 72, *stored.RiskScore)
	assert.NotEmpty(t, stored.ReportMarkdown)
}

func TestAnalyze_NoConsentNeverPersists(t *testing.T) {
	svc, _, appender, orderID := analysisFixture(t, &stubEngine{report: goodReport()}, false)

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, jpegMagic)
	assert.NoError(t, err)
	assert.False(t, resp.Persisted)
	assert.Equal(t, 0, appender.calls)
}

func TestAnalyze_UnpaidOrderRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &models.AnalysisOrder{PlanCode: models.PlanTierBasic, Status: models.OrderStatusCreated}
	assert.NoError(t, repo.Create(order))

	store := sheets.NewStore(&countingAppender{}, nil, "a!A:H", "c!A:E")
	svc := NewAnalysisService(repo, analysis.NewAnalyzer(&stubEngine{report: goodReport()}, nil), store)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: order.ID, Tone: "soft"}, jpegMagic)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeUntrustedOutcome, appErr.Code)
}

func TestAnalyze_AdminBypassSkipsPayment(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &models.AnalysisOrder{
		PlanCode:    models.PlanTierBasic,
		Status:      models.OrderStatusCreated,
		AdminBypass: true,
	}
	assert.NoError(t, repo.Create(order))

	store := sheets.NewStore(&countingAppender{}, nil, "a!A:H", "c!A:E")
	svc := NewAnalysisService(repo, analysis.NewAnalyzer(&stubEngine{report: goodReport()}, nil), store)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: order.ID, Tone: "soft"}, jpegMagic)
	assert.NoError(t, err)
}

func TestAnalyze_MalformedReplyNoPartialPersist(t *testing.T) {
	svc, repo, appender, orderID := analysisFixture(t, &stubEngine{err: analysis.ErrMalformed}, true)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, jpegMagic)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeMalformedResponse, appErr.Code)

	// ни строки в таблице, ни частичного отчета в заказе
	assert.Equal(t, 0, appender.calls)
	stored, _ := repo.FindByID(orderID)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	assert.Empty(t, stored.ReportMarkdown)
}

func TestAnalyze_UpstreamFailureSurfaces(t *testing.T) {
	svc, _, _, orderID := analysisFixture(t, &stubEngine{err: analysis.ErrUpstream}, true)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, jpegMagic)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeUpstream, appErr.Code)
}

func TestAnalyze_RejectsNonImagePayload(t *testing.T) {
	svc, _, _, orderID := analysisFixture(t, &stubEngine{report: goodReport()}, true)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, []byte("plain text"))
	assert.Error(t, err)
}

func TestReportMarkdown_OnlyAfterAnalysis(t *testing.T) {
	svc, repo, _, orderID := analysisFixture(t, &stubEngine{report: goodReport()}, true)

	_, err := svc.ReportMarkdown(orderID)
	assert.Error(t, err)

	_, err = svc.Analyze(context.Background(), &dto.AnalyzeForm{OrderID: orderID, Tone: "soft"}, jpegMagic)
	assert.NoError(t, err)

	md, err := svc.ReportMarkdown(orderID)
	assert.NoError(t, err)
	assert.Contains(t, md, "마포구")

	stored, _ := repo.FindByID(orderID)
	assert.Equal(t, md, stored.ReportMarkdown)
}
