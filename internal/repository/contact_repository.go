package repository

import (
	"dream_site_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(c *model.Contact) error {
	return r.DB.Create(c).Error
}

func (r *ContactRepository) FindByID(id uint) (*model.Contact, error) {
	var c model.Contact
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *ContactRepository) List(status string, page, limit int) ([]model.Contact, int64, error) {
	var list []model.Contact
	var total int64
	query := r.DB.Model(&model.Contact{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *ContactRepository) UpdateStatus(id uint, status model.ContactStatus, handledAt *time.Time) error {
	return r.DB.Model(&model.Contact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"handled_at": handledAt,
		}).Error
}

func (r *ContactRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Contact{}, id).Error
}

func (r *ContactRepository) CountByStatus(status model.ContactStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Contact{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
