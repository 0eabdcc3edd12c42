package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"safehome_backend/internal/auth"
	"safehome_backend/internal/config"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/email"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/repositories"
	"safehome_backend/internal/sheets"
	"safehome_backend/pkg/apperrors"
)

// retargetWindow - за сколько дней до конца договора уходит напоминание
const retargetWindow = 60 * 24 * time.Hour

type AdminService interface {
	Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)

	Records(ctx context.Context) ([]dto.AnalyticsRecord, error)
	ExpiringCapsules() ([]dto.ExpiringCapsule, error)
	SetBypass(orderID string, bypass bool) error
	ExportOrdersXLSX() ([]byte, error)

	// RunRetarget рассылает D-60 напоминания; возвращает число отправленных
	RunRetarget(ctx context.Context) (int, error)
	// RetargetOne отправляет напоминание по одной записи вручную
	RetargetOne(ctx context.Context, recordID string) error
}

type AdminServiceImpl struct {
	orderRepo   repositories.OrderRepository
	capsuleRepo repositories.CapsuleRepository
	store       *sheets.Store
	sender      RetargetSender
	cfg         *config.Config
}

// RetargetSender - минимальный срез email.Provider для рассылки
type RetargetSender interface {
	SendRetarget(to, expiryDate string) error
}

func NewAdminService(
	orderRepo repositories.OrderRepository,
	capsuleRepo repositories.CapsuleRepository,
	store *sheets.Store,
	sender RetargetSender,
	cfg *config.Config,
) AdminService {
	return &AdminServiceImpl{
		orderRepo:   orderRepo,
		capsuleRepo: capsuleRepo,
		store:       store,
		sender:      sender,
		cfg:         cfg,
	}
}

func (s *AdminServiceImpl) Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if s.cfg.Admin.PasswordHash == "" {
		return nil, apperrors.ConfigurationError("admin", "admin password hash is not configured")
	}

	// Единый ответ на неверный email и неверный пароль
	if req.Email != s.cfg.Admin.Email || !auth.CheckPasswordHash(req.Password, s.cfg.Admin.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("이메일 또는 비밀번호가 올바르지 않습니다.")
	}

	ttl := time.Duration(s.cfg.JWT.TTL) * time.Minute
	token, err := auth.IssueToken(s.cfg.JWT.Secret, req.Email, auth.RoleAdmin, ttl)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminLoginResponse{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

func (s *AdminServiceImpl) Records(ctx context.Context) ([]dto.AnalyticsRecord, error) {
	rows, err := s.store.ReadAnalysisRows(ctx)
	if err != nil {
		return nil, apperrors.UpstreamError("google_sheets", err)
	}

	records := make([]dto.AnalyticsRecord, 0, len(rows))
	for _, row := range rows {
		rec := dto.AnalyticsRecord{}
		cells := []*string{
			&rec.Timestamp, &rec.District, &rec.Deposit, &rec.Rent,
			&rec.RiskScore, &rec.ToxicClauses, &rec.PlanCode, &rec.OrderID,
		}
		for i := range cells {
			if i < len(row) {
				*cells[i] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *AdminServiceImpl) ExpiringCapsules() ([]dto.ExpiringCapsule, error) {
	now := time.Now()
	records, err := s.capsuleRepo.FindExpiringBetween(now, now.Add(retargetWindow))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ExpiringCapsule, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.ExpiringCapsule{
			RecordID:   rec.ID,
			Email:      rec.Email,
			ExpiryDate: rec.ExpiryDate.Format("2006-01-02"),
			DaysLeft:   int(time.Until(rec.ExpiryDate).Hours() / 24),
			Retargeted: rec.RetargetSentAt != nil,
		})
	}
	return out, nil
}

func (s *AdminServiceImpl) SetBypass(orderID string, bypass bool) error {
	if err := s.orderRepo.SetAdminBypass(orderID, bypass); err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.NewNotFoundError("orders", "order not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) ExportOrdersXLSX() ([]byte, error) {
	orders, err := s.orderRepo.FindAll(10000, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order ID", "Plan", "Consent", "Final Price", "Status", "Payment Status", "Risk Score", "Created At", "Paid At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		values := []interface{}{
			order.ID,
			string(order.PlanCode),
			order.ConsentGiven,
			order.FinalPrice,
			string(order.Status),
			string(order.PaymentStatus),
		}
		if order.RiskScore != nil {
			values = append(values, *order.RiskScore)
		} else {
			values = append(values, "")
		}
		values = append(values, order.CreatedAt.Format("2006-01-02 15:04:05"))
		if order.PaidAt != nil {
			values = append(values, order.PaidAt.Format("2006-01-02 15:04:05"))
		} else {
			values = append(values, "")
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("xlsx export: %w", err))
	}
	return buf.Bytes(), nil
}

func (s *AdminServiceImpl) RunRetarget(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	records, err := s.capsuleRepo.FindRetargetPending(now, now.Add(retargetWindow))
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	sent := 0
	for _, rec := range records {
		expiry := rec.ExpiryDate.Format("2006-01-02")
		if err := s.sender.SendRetarget(rec.Email, expiry); err != nil {
			log.Error("Не удалось отправить D-60 напоминание", "capsule_id", rec.ID, "error", err)
			continue
		}
		if err := s.capsuleRepo.MarkRetargetSent(rec.ID); err != nil {
			log.Error("Напоминание ушло, но отметка не сохранилась", "capsule_id", rec.ID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Info("Ретаргетинг выполнен", "sent", sent, "candidates", len(records))
	}
	return sent, nil
}

func (s *AdminServiceImpl) RetargetOne(ctx context.Context, recordID string) error {
	log := logger.FromContext(ctx)

	rec, err := s.capsuleRepo.FindByID(recordID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCapsuleNotFound) {
			return apperrors.NewNotFoundError("capsules", "capsule record not found")
		}
		return apperrors.InternalError(err)
	}

	expiry := rec.ExpiryDate.Format("2006-01-02")
	if err := s.sender.SendRetarget(rec.Email, expiry); err != nil {
		return apperrors.UpstreamError("smtp", err)
	}
	if err := s.capsuleRepo.MarkRetargetSent(rec.ID); err != nil {
		log.Error("Напоминание ушло, но отметка не сохранилась", "capsule_id", rec.ID, "error", err)
	}
	return nil
}

// EmailRetargetSender - адаптер email.Provider под RetargetSender
type EmailRetargetSender struct {
	Provider email.Provider
}

func (a *EmailRetargetSender) SendRetarget(to, expiryDate string) error {
	return a.Provider.Send(email.BuildRetargetMessage(to, expiryDate))
}
