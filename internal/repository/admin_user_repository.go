package repository

import (
	"dream_site_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AdminUserRepository struct {
	DB *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{DB: db}
}

func (r *AdminUserRepository) Create(admin *model.AdminUser) error {
	return r.DB.Create(admin).Error
}

func (r *AdminUserRepository) FindByID(id uint) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.DB.First(&admin, id).Error
	return &admin, err
}

func (r *AdminUserRepository) FindByEmail(email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.DB.Where("email = ?", email).First(&admin).Error
	return &admin, err
}

func (r *AdminUserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.DB.Model(&model.AdminUser{}).Where("id = ?", id).Update("last_login", at).Error
}
