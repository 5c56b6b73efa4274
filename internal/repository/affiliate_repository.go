package repository

import (
	"dream_site_backend/internal/model"

	"gorm.io/gorm"
)

type AffiliateRepository struct {
	DB *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{DB: db}
}

func (r *AffiliateRepository) Create(a *model.Affiliate) error {
	return r.DB.Create(a).Error
}

func (r *AffiliateRepository) FindByID(id uint) (*model.Affiliate, error) {
	var a model.Affiliate
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AffiliateRepository) FindByCode(code string) (*model.Affiliate, error) {
	var a model.Affiliate
	err := r.DB.Where("code = ?", code).First(&a).Error
	return &a, err
}

func (r *AffiliateRepository) List(page, limit int) ([]model.Affiliate, int64, error) {
	var list []model.Affiliate
	var total int64
	query := r.DB.Model(&model.Affiliate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *AffiliateRepository) Update(a *model.Affiliate) error {
	return r.DB.Save(a).Error
}

func (r *AffiliateRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Affiliate{}, id).Error
}

func (r *AffiliateRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Affiliate{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
