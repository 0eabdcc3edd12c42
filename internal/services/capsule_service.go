package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/email"
	"safehome_backend/internal/imageprocessor"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/models"
	"safehome_backend/internal/report"
	"safehome_backend/internal/repositories"
	"safehome_backend/internal/sheets"
	"safehome_backend/pkg/apperrors"
)

// PhotoUpload - один снимок из multipart формы с подписью сектора
// (거실, 주방, 욕실 ...)
type PhotoUpload struct {
	Sector string
	Reader io.Reader
}

type CapsuleService interface {
	// SealCapsule: водяной знак на каждое фото -> один PDF -> письмо с
	// вложением -> запись в Postgres -> best-effort строка в таблице
	SealCapsule(ctx context.Context, form *dto.CapsuleForm, photos []PhotoUpload) (*dto.CapsuleResponse, error)
}

type CapsuleServiceImpl struct {
	capsuleRepo repositories.CapsuleRepository
	processor   *imageprocessor.Processor
	pdfBuilder  *report.PDFBuilder
	provider    email.Provider
	store       *sheets.Store
}

func NewCapsuleService(
	capsuleRepo repositories.CapsuleRepository,
	processor *imageprocessor.Processor,
	pdfBuilder *report.PDFBuilder,
	provider email.Provider,
	store *sheets.Store,
) CapsuleService {
	return &CapsuleServiceImpl{
		capsuleRepo: capsuleRepo,
		processor:   processor,
		pdfBuilder:  pdfBuilder,
		provider:    provider,
		store:       store,
	}
}

func (s *CapsuleServiceImpl) SealCapsule(ctx context.Context, form *dto.CapsuleForm, photos []PhotoUpload) (*dto.CapsuleResponse, error) {
	log := logger.FromContext(ctx)

	if len(photos) == 0 {
		return nil, apperrors.NewBadRequestError("최소 한 장의 사진이 필요합니다.")
	}

	expiry, err := time.Parse("2006-01-02", form.ExpiryDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("계약 만료일 형식이 올바르지 않습니다 (YYYY-MM-DD).")
	}

	takenAt := time.Now()

	// Сбой обработки фото или PDF ломает запрос целиком: без артефакта
	// капсула бессмысленна
	processed := make([]report.CapsulePhoto, 0, len(photos))
	for i, photo := range photos {
		jpegBytes, err := s.processor.ProcessPhoto(photo.Reader, takenAt)
		if err != nil {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("사진 %d장을 처리할 수 없습니다: 이미지 파일인지 확인해 주세요.", i+1))
		}
		sector := photo.Sector
		if sector == "" {
			sector = fmt.Sprintf("구역 %d", i+1)
		}
		processed = append(processed, report.CapsulePhoto{Sector: sector, JPEG: jpegBytes})
	}

	pdf, err := s.pdfBuilder.BuildPhotoReport(form.Email, takenAt, form.ExpiryDate, processed)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Письмо - основной канал доставки артефакта, его сбой виден пользователю
	msg := email.BuildCapsuleMessage(form.Email, form.ExpiryDate, pdf)
	if err := s.provider.Send(msg); err != nil {
		return nil, apperrors.UpstreamError("email", err)
	}

	record := &models.CapsuleRecord{
		Email:      form.Email,
		ExpiryDate: expiry,
		PhotoCount: len(photos),
	}
	if err := s.capsuleRepo.Create(record); err != nil {
		log.Error("Не удалось сохранить запись капсулы", "email", form.Email, "error", err)
	}

	registered := s.store.AppendCapsuleRow(ctx, sheets.CapsuleRow{
		Timestamp:  takenAt,
		Email:      form.Email,
		ExpiryDate: form.ExpiryDate,
		PhotoCount: len(photos),
		CapsuleID:  record.ID,
	})

	return &dto.CapsuleResponse{
		RecordID:   record.ID,
		PhotoCount: len(photos),
		EmailSent:  true,
		Registered: registered,
		FileName:   "move_in_capsule.pdf",
	}, nil
}
