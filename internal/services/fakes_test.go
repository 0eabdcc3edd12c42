package services

import (
	"context"
	"fmt"
	"time"

	"safehome_backend/internal/models"
	"safehome_backend/internal/repositories"
)

// fakeOrderRepo - in-memory реализация для тестов сервисного слоя
type fakeOrderRepo struct {
	orders   map[string]*models.AnalysisOrder
	attempts []*models.PaymentAttempt
	seq      int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.AnalysisOrder)}
}

func (f *fakeOrderRepo) Create(order *models.AnalysisOrder) error {
	f.seq++
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", f.seq)
	}
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(id string) (*models.AnalysisOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) FindByPaymentKey(paymentKey string) (*models.AnalysisOrder, error) {
	for _, order := range f.orders {
		if order.PaymentKey == paymentKey {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repositories.ErrOrderNotFound
}

func (f *fakeOrderRepo) MarkPaid(orderID, paymentKey string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	now := time.Now()
	order.Status = models.OrderStatusPaid
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentKey = paymentKey
	order.PaidAt = &now
	return nil
}

func (f *fakeOrderRepo) MarkAnalyzed(orderID string, riskScore int, reportMarkdown string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	now := time.Now()
	order.Status = models.OrderStatusAnalyzed
	order.AnalyzedAt = &now
	order.RiskScore = &riskScore
	order.ReportMarkdown = reportMarkdown
	return nil
}

func (f *fakeOrderRepo) MarkFailed(orderID string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	order.Status = models.OrderStatusFailed
	order.PaymentStatus = models.PaymentStatusFailed
	return nil
}

func (f *fakeOrderRepo) SetAdminBypass(orderID string, bypass bool) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	order.AdminBypass = bypass
	return nil
}

func (f *fakeOrderRepo) LogPaymentAttempt(attempt *models.PaymentAttempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeOrderRepo) FindAll(limit, offset int) ([]models.AnalysisOrder, error) {
	out := make([]models.AnalysisOrder, 0, len(f.orders))
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderRepo) CountByStatus(status models.OrderStatus) (int64, error) {
	var count int64
	for _, order := range f.orders {
		if order.Status == status {
			count++
		}
	}
	return count, nil
}

// fakeCapsuleRepo - in-memory капсулы
type fakeCapsuleRepo struct {
	records map[string]*models.CapsuleRecord
	seq     int
}

func newFakeCapsuleRepo() *fakeCapsuleRepo {
	return &fakeCapsuleRepo{records: make(map[string]*models.CapsuleRecord)}
}

func (f *fakeCapsuleRepo) Create(record *models.CapsuleRecord) error {
	f.seq++
	if record.ID == "" {
		record.ID = fmt.Sprintf("capsule-%d", f.seq)
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeCapsuleRepo) FindByID(id string) (*models.CapsuleRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, repositories.ErrCapsuleNotFound
	}
	return record, nil
}

func (f *fakeCapsuleRepo) FindExpiringBetween(from, to time.Time) ([]models.CapsuleRecord, error) {
	var out []models.CapsuleRecord
	for _, rec := range f.records {
		if !rec.ExpiryDate.Before(from) && rec.ExpiryDate.Before(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeCapsuleRepo) FindRetargetPending(from, to time.Time) ([]models.CapsuleRecord, error) {
	var out []models.CapsuleRecord
	for _, rec := range f.records {
		if rec.RetargetSentAt != nil {
			continue
		}
		if !rec.ExpiryDate.Before(from) && rec.ExpiryDate.Before(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeCapsuleRepo) MarkRetargetSent(id string) error {
	record, ok := f.records[id]
	if !ok {
		return repositories.ErrCapsuleNotFound
	}
	now := time.Now()
	record.RetargetSentAt = &now
	return nil
}

func (f *fakeCapsuleRepo) FindAll(limit, offset int) ([]models.CapsuleRecord, error) {
	out := make([]models.CapsuleRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}

// fakeVerifier - подменный платежный confirm
type fakeVerifier struct {
	calls int
	err   error
}

func (f *fakeVerifier) Confirm(_ context.Context, paymentKey, orderID string, amount int64) error {
	f.calls++
	return f.err
}
