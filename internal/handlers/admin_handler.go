package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/middleware"
	"safehome_backend/internal/services"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
	jwtSecret    string
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
		jwtSecret:    jwtSecret,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")

	admin.POST("/login", h.Login)

	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware(h.jwtSecret))
	{
		protected.GET("/records", h.Records)
		protected.GET("/expiring", h.ExpiringCapsules)
		protected.GET("/export", h.ExportOrders)
		protected.POST("/retarget", h.RunRetarget)
		protected.POST("/retarget/:recordID", h.RetargetOne)
		protected.POST("/orders/:orderID/bypass", h.SetBypass)
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Records - строки аналитики, прочитанные обратно из таблицы
func (h *AdminHandler) Records(c *gin.Context) {
	records, err := h.adminService.Records(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// ExpiringCapsules - капсулы в окне D-60
func (h *AdminHandler) ExpiringCapsules(c *gin.Context) {
	capsules, err := h.adminService.ExpiringCapsules()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"capsules": capsules, "count": len(capsules)})
}

// ExportOrders выгружает заказы в xlsx
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	data, err := h.adminService.ExportOrdersXLSX()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := "orders_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// RunRetarget запускает рассылку D-60 вручную (в обход ежедневного worker-а)
func (h *AdminHandler) RunRetarget(c *gin.Context) {
	sent, err := h.adminService.RunRetarget(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// RetargetOne отправляет напоминание по конкретной записи капсулы
func (h *AdminHandler) RetargetOne(c *gin.Context) {
	recordID := c.Param("recordID")
	if err := h.adminService.RetargetOne(c.Request.Context(), recordID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

type bypassRequest struct {
	Bypass bool `json:"bypass"`
}

// SetBypass включает/выключает проход без оплаты для заказа
func (h *AdminHandler) SetBypass(c *gin.Context) {
	var req bypassRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.adminService.SetBypass(c.Param("orderID"), req.Bypass); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("orderID"), "bypass": req.Bypass})
}
