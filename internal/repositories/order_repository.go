package repositories

import (
	"errors"
	"time"

	"safehome_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	Create(order *models.AnalysisOrder) error
	FindByID(id string) (*models.AnalysisOrder, error)
	FindByPaymentKey(paymentKey string) (*models.AnalysisOrder, error)

	// MarkPaid переводит заказ created -> paid атомарно; повторный вызов
	// с тем же заказом не ошибка (идемпотентное подтверждение)
	MarkPaid(orderID, paymentKey string) error
	MarkAnalyzed(orderID string, riskScore int, reportMarkdown string) error
	MarkFailed(orderID string) error
	SetAdminBypass(orderID string, bypass bool) error

	LogPaymentAttempt(attempt *models.PaymentAttempt) error

	FindAll(limit, offset int) ([]models.AnalysisOrder, error)
	CountByStatus(status models.OrderStatus) (int64, error)
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(order *models.AnalysisOrder) error {
	return r.db.Create(order).Error
}

func (r *OrderRepositoryImpl) FindByID(id string) (*models.AnalysisOrder, error) {
	var order models.AnalysisOrder
	err := r.db.First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByPaymentKey(paymentKey string) (*models.AnalysisOrder, error) {
	var order models.AnalysisOrder
	err := r.db.First(&order, "payment_key = ?", paymentKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) MarkPaid(orderID, paymentKey string) error {
	now := time.Now()
	result := r.db.Model(&models.AnalysisOrder{}).
		Where("id = ? AND status IN ?", orderID, []models.OrderStatus{models.OrderStatusCreated, models.OrderStatusPaid}).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusPaid,
			"payment_status": models.PaymentStatusPaid,
			"payment_key":    paymentKey,
			"paid_at":        &now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) MarkAnalyzed(orderID string, riskScore int, reportMarkdown string) error {
	now := time.Now()
	result := r.db.Model(&models.AnalysisOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":          models.OrderStatusAnalyzed,
			"analyzed_at":     &now,
			"risk_score":      riskScore,
			"report_markdown": reportMarkdown,
			"updated_at":      now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) MarkFailed(orderID string) error {
	return r.db.Model(&models.AnalysisOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusFailed,
			"payment_status": models.PaymentStatusFailed,
			"updated_at":     time.Now(),
		}).Error
}

func (r *OrderRepositoryImpl) SetAdminBypass(orderID string, bypass bool) error {
	result := r.db.Model(&models.AnalysisOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"admin_bypass": bypass,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) LogPaymentAttempt(attempt *models.PaymentAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *OrderRepositoryImpl) FindAll(limit, offset int) ([]models.AnalysisOrder, error) {
	var orders []models.AnalysisOrder
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

func (r *OrderRepositoryImpl) CountByStatus(status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalysisOrder{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
