package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/services"
	"safehome_backend/pkg/apperrors"
)

const maxCapsulePhotos = 20

type CapsuleHandler struct {
	*BaseHandler
	capsuleService services.CapsuleService
}

func NewCapsuleHandler(base *BaseHandler, capsuleService services.CapsuleService) *CapsuleHandler {
	return &CapsuleHandler{
		BaseHandler:    base,
		capsuleService: capsuleService,
	}
}

func (h *CapsuleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/capsules", h.SealCapsule)
}

// SealCapsule принимает multipart: email, expiry_date, фото частями
// "photos" и необязательные подписи секторов "sectors"
func (h *CapsuleHandler) SealCapsule(c *gin.Context) {
	var form dto.CapsuleForm
	if !h.BindAndValidate_Form(c, &form) {
		return
	}

	mpForm, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("multipart form이 필요합니다."))
		return
	}

	files := mpForm.File["photos"]
	if len(files) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("최소 한 장의 사진(photos)이 필요합니다."))
		return
	}
	if len(files) > maxCapsulePhotos {
		apperrors.HandleError(c, apperrors.NewBadRequestError("사진은 최대 20장까지 업로드할 수 있습니다."))
		return
	}
	sectors := mpForm.Value["sectors"]

	photos := make([]services.PhotoUpload, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.HandleServiceError(c, apperrors.InternalError(err))
			return
		}
		defer f.Close()

		sector := ""
		if i < len(sectors) {
			sector = sectors[i]
		}
		photos = append(photos, services.PhotoUpload{Sector: sector, Reader: f})
	}

	resp, err := h.capsuleService.SealCapsule(c.Request.Context(), &form, photos)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
