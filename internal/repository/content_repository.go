package repository

import (
	"dream_site_backend/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) Create(p *model.Project) error {
	return r.DB.Create(p).Error
}

func (r *ProjectRepository) FindByID(id uint) (*model.Project, error) {
	var p model.Project
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ProjectRepository) FindBySlug(slug string, publishedOnly bool) (*model.Project, error) {
	var p model.Project
	query := r.DB.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.First(&p).Error
	return &p, err
}

func (r *ProjectRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Project{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) List(publishedOnly bool, page, limit int) ([]model.Project, int64, error) {
	var list []model.Project
	var total int64
	query := r.DB.Model(&model.Project{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("sort_order asc, created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *ProjectRepository) Update(p *model.Project) error {
	return r.DB.Save(p).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Project{}, id).Error
}

type BlogPostRepository struct {
	DB *gorm.DB
}

func NewBlogPostRepository(db *gorm.DB) *BlogPostRepository {
	return &BlogPostRepository{DB: db}
}

func (r *BlogPostRepository) Create(p *model.BlogPost) error {
	return r.DB.Create(p).Error
}

func (r *BlogPostRepository) FindByID(id uint) (*model.BlogPost, error) {
	var p model.BlogPost
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *BlogPostRepository) FindBySlug(slug string, publishedOnly bool) (*model.BlogPost, error) {
	var p model.BlogPost
	query := r.DB.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.First(&p).Error
	return &p, err
}

func (r *BlogPostRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.BlogPost{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error
	return count > 0, err
}

func (r *BlogPostRepository) List(publishedOnly bool, page, limit int) ([]model.BlogPost, int64, error) {
	var list []model.BlogPost
	var total int64
	query := r.DB.Model(&model.BlogPost{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("published_at desc, created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *BlogPostRepository) Update(p *model.BlogPost) error {
	return r.DB.Save(p).Error
}

func (r *BlogPostRepository) Delete(id uint) error {
	return r.DB.Delete(&model.BlogPost{}, id).Error
}

type ServiceRepository struct {
	DB *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

func (r *ServiceRepository) Create(s *model.Service) error {
	return r.DB.Create(s).Error
}

func (r *ServiceRepository) FindByID(id uint) (*model.Service, error) {
	var s model.Service
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *ServiceRepository) FindBySlug(slug string, publishedOnly bool) (*model.Service, error) {
	var s model.Service
	query := r.DB.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.First(&s).Error
	return &s, err
}

func (r *ServiceRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Service{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error
	return count > 0, err
}

// ListAll 服务条目数量很少，不分页
func (r *ServiceRepository) ListAll(publishedOnly bool) ([]model.Service, error) {
	var list []model.Service
	query := r.DB.Model(&model.Service{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("sort_order asc, id asc").Find(&list).Error
	return list, err
}

func (r *ServiceRepository) Update(s *model.Service) error {
	return r.DB.Save(s).Error
}

func (r *ServiceRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Service{}, id).Error
}
