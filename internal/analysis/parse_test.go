package analysis

import (
	"context"
	"fmt"
	"testing"

	"safehome_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

const validReply = `{
  "user_report": "## 분석 결과\n독소조항 2건 발견",
  "db_data": {
    "district": "마포구",
    "deposit": 50000000,
    "rent": 500000,
    "toxic_clauses": ["원상복구 특약", "수리비 전가"],
    "risk_score": 72
  }
}`

func TestParseReport_Valid(t *testing.T) {
	r, err := ParseReport(validReply)

	assert.NoError(t, err)
	assert.Equal(t, "마포구", r.DBData.District)
	assert.Equal(t, int64(50000000), r.DBData.Deposit)
	assert.Equal(t, 72, r.DBData.RiskScore)
	assert.Len(t, r.DBData.ToxicClauses, 2)
}

func TestParseReport_ToleratesCodeFences(t *testing.T) {
	wrapped := "```json\n" + validReply + "\n```"

	r, err := ParseReport(wrapped)
	assert.NoError(t, err)
	assert.Equal(t, "마포구", r.DBData.District)
}

func TestParseReport_MalformedNeverPanics(t *testing.T) {
	for _, raw := range []string{
		"",
		"죄송합니다, 분석할 수 없습니다.",
		"{not json",
		"```\nnope\n```",
		`{"db_data": {"risk_score": 10}}`,             // нет user_report
		`{"user_report":"x","db_data":{"risk_score":150}}`, // score вне [0,100]
	} {
		_, err := ParseReport(raw)
		assert.ErrorIs(t, err, ErrMalformed, "raw: %q", raw)
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
}

func TestSniffImageMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffImageMIME([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, "image/png", SniffImageMIME([]byte("\x89PNG\r\n\x1a\nrest")))
	assert.Equal(t, "", SniffImageMIME([]byte("plain text")))
}

// fakeEngine - управляемый движок для проверки политики повторов
type fakeEngine struct {
	name    string
	replies []func() (Report, error)
	calls   int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Analyze(_ context.Context, _ []byte, _ string, _ Options) (Report, error) {
	reply := f.replies[min(f.calls, len(f.replies)-1)]
	f.calls++
	return reply()
}

func (f *fakeEngine) GenerateText(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return "", fmt.Errorf("%w: down", ErrUpstream)
}

func upstreamFail() (Report, error) {
	return Report{}, fmt.Errorf("%w: connection refused", ErrUpstream)
}

func malformedFail() (Report, error) {
	return Report{}, fmt.Errorf("%w: bad json", ErrMalformed)
}

func okReport() (Report, error) {
	return Report{UserReport: "ok", DBData: Structured{RiskScore: 10}}, nil
}

func TestAnalyzer_RetriesOnceOnUpstream(t *testing.T) {
	primary := &fakeEngine{name: "p", replies: []func() (Report, error){upstreamFail, okReport}}
	a := NewAnalyzer(primary, nil)

	r, err := a.Analyze(context.Background(), []byte{1}, "image/jpeg", Options{PlanCode: models.PlanTierBasic, Tone: models.ToneSoft})

	assert.NoError(t, err)
	assert.Equal(t, "ok", r.UserReport)
	assert.Equal(t, 2, primary.calls)
}

func TestAnalyzer_NeverRetriesMalformed(t *testing.T) {
	primary := &fakeEngine{name: "p", replies: []func() (Report, error){malformedFail, okReport}}
	fallback := &fakeEngine{name: "f", replies: []func() (Report, error){okReport}}
	a := NewAnalyzer(primary, fallback)

	_, err := a.Analyze(context.Background(), []byte{1}, "image/jpeg", Options{PlanCode: models.PlanTierBasic, Tone: models.ToneSoft})

	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestAnalyzer_FallsBackAfterRetry(t *testing.T) {
	primary := &fakeEngine{name: "p", replies: []func() (Report, error){upstreamFail}}
	fallback := &fakeEngine{name: "f", replies: []func() (Report, error){okReport}}
	a := NewAnalyzer(primary, fallback)

	r, err := a.Analyze(context.Background(), []byte{1}, "image/jpeg", Options{PlanCode: models.PlanTierPremium, Tone: models.ToneFirm})

	assert.NoError(t, err)
	assert.Equal(t, "ok", r.UserReport)
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestBuildSystemPrompt_TierDepth(t *testing.T) {
	premium, err := BuildSystemPrompt(Options{PlanCode: models.PlanTierPremium, Tone: models.ToneFirm})
	assert.NoError(t, err)
	assert.Contains(t, premium, "Action Plan")
	assert.Contains(t, premium, "주택임대차보호법")

	basic, err := BuildSystemPrompt(Options{PlanCode: models.PlanTierBasic, Tone: models.ToneSoft})
	assert.NoError(t, err)
	assert.Contains(t, basic, "O/X")
	assert.NotContains(t, basic, "Action Plan")

	_, err = BuildSystemPrompt(Options{PlanCode: models.PlanTier("GOLD")})
	assert.Error(t, err)
}
