package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/services"
	"safehome_backend/pkg/apperrors"
)

// Потолок на размер изображения договора
const maxContractImageBytes = 10 << 20 // 10 MiB

type AnalysisHandler struct {
	*BaseHandler
	analysisService services.AnalysisService
}

func NewAnalysisHandler(base *BaseHandler, analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler:     base,
		analysisService: analysisService,
	}
}

func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analyses := rg.Group("/analyses")
	{
		analyses.POST("", h.Analyze)
		analyses.GET("/:orderID/report", h.DownloadReport)
	}
}

// Analyze принимает multipart: поля order_id/tone и файл "contract"
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var form dto.AnalyzeForm
	if !h.BindAndValidate_Form(c, &form) {
		return
	}

	fileHeader, err := c.FormFile("contract")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("계약서 이미지 파일(contract)이 필요합니다."))
		return
	}
	if fileHeader.Size > maxContractImageBytes {
		apperrors.HandleError(c, apperrors.NewBadRequestError("계약서 이미지는 10MB를 넘을 수 없습니다."))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxContractImageBytes))
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	resp, err := h.analysisService.Analyze(c.Request.Context(), &form, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadReport отдает сохраненный markdown как скачиваемый файл
func (h *AnalysisHandler) DownloadReport(c *gin.Context) {
	orderID := c.Param("orderID")

	markdown, err := h.analysisService.ReportMarkdown(orderID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if c.Query("format") == "md" {
		c.Header("Content-Disposition", `attachment; filename="contract_report.md"`)
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}
