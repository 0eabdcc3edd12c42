package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/validator"
	"safehome_backend/pkg/apperrors"
)

type stubAnalysisService struct {
	resp     *dto.AnalysisResponse
	err      error
	markdown string
	mdErr    error
	gotForm  *dto.AnalyzeForm
	gotImage []byte
}

func (s *stubAnalysisService) Analyze(_ context.Context, form *dto.AnalyzeForm, image []byte) (*dto.AnalysisResponse, error) {
	s.gotForm = form
	s.gotImage = image
	return s.resp, s.err
}

func (s *stubAnalysisService) ReportMarkdown(_ string) (string, error) {
	return s.markdown, s.mdErr
}

func analysisRouter(svc *stubAnalysisService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalysisHandler(NewBaseHandler(validator.New()), svc)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func analyzeRequest(t *testing.T, orderID, tone string, contract []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	assert.NoError(t, mw.WriteField("order_id", orderID))
	assert.NoError(t, mw.WriteField("tone", tone))
	if contract != nil {
		part, err := mw.CreateFormFile("contract", "contract.jpg")
		assert.NoError(t, err)
		_, err = part.Write(contract)
		assert.NoError(t, err)
	}
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const validOrderID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestAnalyzeEndpoint(t *testing.T) {
	svc := &stubAnalysisService{resp: &dto.AnalysisResponse{OrderID: validOrderID, Persisted: true}}
	r := analysisRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, analyzeRequest(t, validOrderID, "soft", []byte{0xFF, 0xD8, 0xFF}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, validOrderID, svc.gotForm.OrderID)
	assert.Equal(t, "soft", svc.gotForm.Tone)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, svc.gotImage)
}

func TestAnalyzeEndpoint_MissingFile(t *testing.T) {
	r := analysisRouter(&stubAnalysisService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, analyzeRequest(t, validOrderID, "soft", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpoint_InvalidTone(t *testing.T) {
	r := analysisRouter(&stubAnalysisService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, analyzeRequest(t, validOrderID, "aggressive", []byte{0xFF, 0xD8, 0xFF}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpoint_MalformedModelReply(t *testing.T) {
	svc := &stubAnalysisService{err: apperrors.MalformedResponseError(assert.AnError)}
	r := analysisRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, analyzeRequest(t, validOrderID, "firm", []byte{0xFF, 0xD8, 0xFF}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDownloadReportEndpoint(t *testing.T) {
	svc := &stubAnalysisService{markdown: "# 리포트"}
	r := analysisRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+validOrderID+"/report", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "리포트")

	// ?format=md переключает ответ в скачивание
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+validOrderID+"/report?format=md", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "contract_report.md")
}
