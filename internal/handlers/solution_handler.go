package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/services"
)

type SolutionHandler struct {
	*BaseHandler
	solutionService services.SolutionService
}

func NewSolutionHandler(base *BaseHandler, solutionService services.SolutionService) *SolutionHandler {
	return &SolutionHandler{
		BaseHandler:     base,
		solutionService: solutionService,
	}
}

func (h *SolutionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	solutions := rg.Group("/solutions")
	{
		solutions.POST("", h.GenerateSolution)
		solutions.POST("/letter", h.BuildLetter)
	}
}

// GenerateSolution возвращает два черновика: мессенджер и 내용증명
func (h *SolutionHandler) GenerateSolution(c *gin.Context) {
	var req dto.SolutionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.solutionService.GenerateSolution(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BuildLetter собирает PDF претензии из заполненных блоков
func (h *SolutionHandler) BuildLetter(c *gin.Context) {
	var req dto.LegalLetterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pdf, err := h.solutionService.BuildLetter(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="legal_letter.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
