package repositories

import (
	"errors"
	"time"

	"safehome_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCapsuleNotFound = errors.New("capsule not found")
)

type CapsuleRepository interface {
	Create(record *models.CapsuleRecord) error
	FindByID(id string) (*models.CapsuleRecord, error)

	// FindExpiringBetween возвращает все капсулы, у которых договор
	// истекает в окне [from, to)
	FindExpiringBetween(from, to time.Time) ([]models.CapsuleRecord, error)
	// FindRetargetPending - то же окно, но только записи, по которым
	// напоминание еще не уходило
	FindRetargetPending(from, to time.Time) ([]models.CapsuleRecord, error)
	MarkRetargetSent(id string) error

	FindAll(limit, offset int) ([]models.CapsuleRecord, error)
}

type CapsuleRepositoryImpl struct {
	db *gorm.DB
}

func NewCapsuleRepository(db *gorm.DB) CapsuleRepository {
	return &CapsuleRepositoryImpl{db: db}
}

func (r *CapsuleRepositoryImpl) Create(record *models.CapsuleRecord) error {
	return r.db.Create(record).Error
}

func (r *CapsuleRepositoryImpl) FindByID(id string) (*models.CapsuleRecord, error) {
	var record models.CapsuleRecord
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCapsuleNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *CapsuleRepositoryImpl) FindExpiringBetween(from, to time.Time) ([]models.CapsuleRecord, error) {
	var records []models.CapsuleRecord
	err := r.db.
		Where("expiry_date >= ? AND expiry_date < ?", from, to).
		Order("expiry_date ASC").
		Find(&records).Error
	return records, err
}

func (r *CapsuleRepositoryImpl) FindRetargetPending(from, to time.Time) ([]models.CapsuleRecord, error) {
	var records []models.CapsuleRecord
	err := r.db.
		Where("expiry_date >= ? AND expiry_date < ? AND retarget_sent_at IS NULL", from, to).
		Order("expiry_date ASC").
		Find(&records).Error
	return records, err
}

func (r *CapsuleRepositoryImpl) MarkRetargetSent(id string) error {
	now := time.Now()
	result := r.db.Model(&models.CapsuleRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retarget_sent_at": &now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCapsuleNotFound
	}
	return nil
}

func (r *CapsuleRepositoryImpl) FindAll(limit, offset int) ([]models.CapsuleRecord, error) {
	var records []models.CapsuleRecord
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	return records, err
}
