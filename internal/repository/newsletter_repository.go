package repository

import (
	"dream_site_backend/internal/model"

	"gorm.io/gorm"
)

type NewsletterRepository struct {
	DB *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{DB: db}
}

func (r *NewsletterRepository) Create(s *model.NewsletterSubscriber) error {
	return r.DB.Create(s).Error
}

func (r *NewsletterRepository) FindByEmail(email string) (*model.NewsletterSubscriber, error) {
	var s model.NewsletterSubscriber
	err := r.DB.Where("email = ?", email).First(&s).Error
	return &s, err
}

func (r *NewsletterRepository) FindByToken(token string) (*model.NewsletterSubscriber, error) {
	var s model.NewsletterSubscriber
	err := r.DB.Where("token = ?", token).First(&s).Error
	return &s, err
}

func (r *NewsletterRepository) Update(s *model.NewsletterSubscriber) error {
	return r.DB.Save(s).Error
}

func (r *NewsletterRepository) List(status string, page, limit int) ([]model.NewsletterSubscriber, int64, error) {
	var list []model.NewsletterSubscriber
	var total int64
	query := r.DB.Model(&model.NewsletterSubscriber{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("subscribed_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *NewsletterRepository) CountByStatus(status model.SubscriberStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.NewsletterSubscriber{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
