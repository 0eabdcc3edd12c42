package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"safehome_backend/internal/auth"
	"safehome_backend/internal/dto"
	"safehome_backend/internal/models"
	"safehome_backend/internal/sheets"
	"safehome_backend/pkg/apperrors"
)

type fakeRetargetSender struct {
	sent []string
	err  error
}

func (f *fakeRetargetSender) SendRetarget(to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func adminFixture(t *testing.T) (AdminService, *fakeOrderRepo, *fakeCapsuleRepo, *fakeRetargetSender) {
	t.Helper()

	cfg := testConfig()
	hash, err := auth.HashPassword("admin-password-1")
	assert.NoError(t, err)
	cfg.Admin.PasswordHash = hash

	orderRepo := newFakeOrderRepo()
	capsuleRepo := newFakeCapsuleRepo()
	sender := &fakeRetargetSender{}
	store := sheets.NewStore(nil, &fakeSheetReader{}, "analytics!A:H", "capsules!A:E")

	return NewAdminService(orderRepo, capsuleRepo, store, sender, cfg), orderRepo, capsuleRepo, sender
}

type fakeSheetReader struct{}

func (f *fakeSheetReader) Read(_ context.Context, _ string) ([][]interface{}, error) {
	return [][]interface{}{
		{"2026-03-01 12:30:00", "마포구", "50000000", "500000", "72", "원상복구 특약", "PREMIUM", "ord-1"},
		{"2026-03-02 09:00:00", "강남구"},
	}, nil
}

func TestAdminLogin_Success(t *testing.T) {
	svc, _, _, _ := adminFixture(t)

	resp, err := svc.Login(&dto.AdminLoginRequest{Email: "admin@safehome.kr", Password: "admin-password-1"})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := auth.ParseToken("test-jwt-secret", resp.Token)
	assert.NoError(t, err)
	assert.True(t, auth.IsAdmin(claims))
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := adminFixture(t)

	_, err := svc.Login(&dto.AdminLoginRequest{Email: "admin@safehome.kr", Password: "wrong-password"})
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestAdminLogin_MissingHashIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	svc := NewAdminService(newFakeOrderRepo(), newFakeCapsuleRepo(), sheets.NewStore(nil, nil, "a", "c"), &fakeRetargetSender{}, cfg)

	_, err := svc.Login(&dto.AdminLoginRequest{Email: "admin@safehome.kr", Password: "whatever-pass"})
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeConfiguration, appErr.Code)
}

func TestAdminRecords_TolerateShortRows(t *testing.T) {
	svc, _, _, _ := adminFixture(t)

	records, err := svc.Records(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "ord-1", records[0].OrderID)
	assert.Equal(t, "강남구", records[1].District)
	assert.Empty(t, records[1].OrderID)
}

func TestRunRetarget_SendsOnceWithinWindow(t *testing.T) {
	svc, _, capsuleRepo, sender := adminFixture(t)

	inWindow := &models.CapsuleRecord{Email: "soon@example.com", ExpiryDate: time.Now().Add(30 * 24 * time.Hour)}
	farAway := &models.CapsuleRecord{Email: "later@example.com", ExpiryDate: time.Now().Add(200 * 24 * time.Hour)}
	assert.NoError(t, capsuleRepo.Create(inWindow))
	assert.NoError(t, capsuleRepo.Create(farAway))

	sent, err := svc.RunRetarget(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"soon@example.com"}, sender.sent)

	// повторный запуск не шлет дубликатов
	sent, err = svc.RunRetarget(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestRunRetarget_SendFailureLeavesRecordUnmarked(t *testing.T) {
	svc, _, capsuleRepo, sender := adminFixture(t)
	sender.err = errors.New("smtp down")

	rec := &models.CapsuleRecord{Email: "soon@example.com", ExpiryDate: time.Now().Add(30 * 24 * time.Hour)}
	assert.NoError(t, capsuleRepo.Create(rec))

	sent, err := svc.RunRetarget(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)

	stored, _ := capsuleRepo.FindByID(rec.ID)
	assert.Nil(t, stored.RetargetSentAt)
}

func TestExpiringCapsules_ListsSentAndUnsent(t *testing.T) {
	svc, _, capsuleRepo, _ := adminFixture(t)

	sentAt := time.Now().Add(-24 * time.Hour)
	alreadySent := &models.CapsuleRecord{
		Email:          "sent@example.com",
		ExpiryDate:     time.Now().Add(20 * 24 * time.Hour),
		RetargetSentAt: &sentAt,
	}
	pending := &models.CapsuleRecord{
		Email:      "pending@example.com",
		ExpiryDate: time.Now().Add(40 * 24 * time.Hour),
	}
	assert.NoError(t, capsuleRepo.Create(alreadySent))
	assert.NoError(t, capsuleRepo.Create(pending))

	list, err := svc.ExpiringCapsules()
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	byEmail := make(map[string]bool, len(list))
	for _, c := range list {
		byEmail[c.Email] = c.Retargeted
	}
	assert.True(t, byEmail["sent@example.com"])
	assert.False(t, byEmail["pending@example.com"])
}

func TestRetargetOne_SendsAndMarks(t *testing.T) {
	svc, _, capsuleRepo, sender := adminFixture(t)

	rec := &models.CapsuleRecord{Email: "manual@example.com", ExpiryDate: time.Now().Add(10 * 24 * time.Hour)}
	assert.NoError(t, capsuleRepo.Create(rec))

	assert.NoError(t, svc.RetargetOne(context.Background(), rec.ID))
	assert.Equal(t, []string{"manual@example.com"}, sender.sent)

	stored, _ := capsuleRepo.FindByID(rec.ID)
	assert.NotNil(t, stored.RetargetSentAt)

	err := svc.RetargetOne(context.Background(), "missing-id")
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestSetBypass(t *testing.T) {
	svc, orderRepo, _, _ := adminFixture(t)

	order := &models.AnalysisOrder{PlanCode: models.PlanTierBasic, Status: models.OrderStatusCreated}
	assert.NoError(t, orderRepo.Create(order))

	assert.NoError(t, svc.SetBypass(order.ID, true))
	stored, _ := orderRepo.FindByID(order.ID)
	assert.True(t, stored.AdminBypass)

	err := svc.SetBypass("missing-id", true)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestExportOrdersXLSX(t *testing.T) {
	svc, orderRepo, _, _ := adminFixture(t)

	order := &models.AnalysisOrder{
		PlanCode:   models.PlanTierPremium,
		FinalPrice: 2900,
		Status:     models.OrderStatusPaid,
	}
	assert.NoError(t, orderRepo.Create(order))

	data, err := svc.ExportOrdersXLSX()
	assert.NoError(t, err)
	// xlsx = zip контейнер
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
