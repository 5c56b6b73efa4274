package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/util"
	"errors"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 生成 URL 片段：小写字母数字，其余字符折叠为单个 "-"
func Slugify(s string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 200 {
		slug = strings.TrimRight(slug[:200], "-")
	}
	return slug
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}

// ProjectInput 作品案例
type ProjectInput struct {
	Title      string `json:"title" binding:"required,max=200"`
	Slug       string `json:"slug"`
	Client     string `json:"client"`
	Summary    string `json:"summary"`
	Body       string `json:"body"`
	CoverImage string `json:"coverImage"`
	Tags       string `json:"tags"`
	SortOrder  int    `json:"sortOrder"`
	Published  bool   `json:"published"`
}

// BlogPostInput 博客文章
type BlogPostInput struct {
	Title      string `json:"title" binding:"required,max=200"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	CoverImage string `json:"coverImage"`
	Author     string `json:"author"`
	Published  bool   `json:"published"`
}

// ServiceInput 服务项目
type ServiceInput struct {
	Title     string `json:"title" binding:"required,max=200"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	Icon      string `json:"icon"`
	PriceFrom int    `json:"priceFrom"`
	SortOrder int    `json:"sortOrder"`
	Published bool   `json:"published"`
}

type ContentService struct {
	ProjectRepo    *repository.ProjectRepository
	BlogRepo       *repository.BlogPostRepository
	ServiceRepo    *repository.ServiceRepository
	StorageService *StorageService
}

func NewContentService(
	projectRepo *repository.ProjectRepository,
	blogRepo *repository.BlogPostRepository,
	serviceRepo *repository.ServiceRepository,
	storageService *StorageService,
) *ContentService {
	return &ContentService{
		ProjectRepo:    projectRepo,
		BlogRepo:       blogRepo,
		ServiceRepo:    serviceRepo,
		StorageService: storageService,
	}
}

// resolveSlug 优先使用传入的 slug，否则由标题生成，并检查唯一性
func resolveSlug(slug, title string, excludeID uint, exists func(string, uint) (bool, error)) (string, error) {
	s := Slugify(slug)
	if s == "" {
		s = Slugify(title)
	}
	if s == "" {
		return "", util.ErrInvalidSlug
	}
	taken, err := exists(s, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", util.ErrSlugTaken
	}
	return s, nil
}

// ---- 作品案例 ----

func (s *ContentService) ListProjects(publishedOnly bool, page, limit int) ([]model.Project, int64, error) {
	return s.ProjectRepo.List(publishedOnly, page, limit)
}

func (s *ContentService) GetProject(slug string, publishedOnly bool) (*model.Project, error) {
	p, err := s.ProjectRepo.FindBySlug(slug, publishedOnly)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ContentService) CreateProject(in ProjectInput) (*model.Project, error) {
	slug, err := resolveSlug(in.Slug, in.Title, 0, s.ProjectRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &model.Project{}
	applyProjectInput(p, in, slug)
	if err := s.ProjectRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) UpdateProject(id uint, in ProjectInput) (*model.Project, error) {
	p, err := s.ProjectRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	slug, err := resolveSlug(in.Slug, in.Title, id, s.ProjectRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	applyProjectInput(p, in, slug)
	if err := s.ProjectRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func applyProjectInput(p *model.Project, in ProjectInput, slug string) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = slug
	p.Client = in.Client
	p.Summary = in.Summary
	p.Body = in.Body
	p.CoverImage = in.CoverImage
	p.Tags = in.Tags
	p.SortOrder = in.SortOrder
	p.Published = in.Published
}

func (s *ContentService) DeleteProject(id uint) error {
	if _, err := s.ProjectRepo.FindByID(id); err != nil {
		return notFound(err)
	}
	return s.ProjectRepo.Delete(id)
}

// ---- 博客 ----

func (s *ContentService) ListPosts(publishedOnly bool, page, limit int) ([]model.BlogPost, int64, error) {
	return s.BlogRepo.List(publishedOnly, page, limit)
}

func (s *ContentService) GetPost(slug string, publishedOnly bool) (*model.BlogPost, error) {
	p, err := s.BlogRepo.FindBySlug(slug, publishedOnly)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ContentService) CreatePost(in BlogPostInput) (*model.BlogPost, error) {
	slug, err := resolveSlug(in.Slug, in.Title, 0, s.BlogRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &model.BlogPost{}
	applyPostInput(p, in, slug, time.Now())
	if err := s.BlogRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) UpdatePost(id uint, in BlogPostInput) (*model.BlogPost, error) {
	p, err := s.BlogRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	slug, err := resolveSlug(in.Slug, in.Title, id, s.BlogRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	applyPostInput(p, in, slug, time.Now())
	if err := s.BlogRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyPostInput 首次发布时记录发布时间，之后保持不变
func applyPostInput(p *model.BlogPost, in BlogPostInput, slug string, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = slug
	p.Excerpt = in.Excerpt
	p.Body = in.Body
	p.CoverImage = in.CoverImage
	p.Author = in.Author
	p.Published = in.Published
	if in.Published && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

func (s *ContentService) DeletePost(id uint) error {
	if _, err := s.BlogRepo.FindByID(id); err != nil {
		return notFound(err)
	}
	return s.BlogRepo.Delete(id)
}

// ---- 服务项目 ----

func (s *ContentService) ListServices(publishedOnly bool) ([]model.Service, error) {
	return s.ServiceRepo.ListAll(publishedOnly)
}

func (s *ContentService) GetService(slug string, publishedOnly bool) (*model.Service, error) {
	svc, err := s.ServiceRepo.FindBySlug(slug, publishedOnly)
	if err != nil {
		return nil, notFound(err)
	}
	return svc, nil
}

func (s *ContentService) CreateService(in ServiceInput) (*model.Service, error) {
	slug, err := resolveSlug(in.Slug, in.Title, 0, s.ServiceRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	svc := &model.Service{}
	applyServiceInput(svc, in, slug)
	if err := s.ServiceRepo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *ContentService) UpdateService(id uint, in ServiceInput) (*model.Service, error) {
	svc, err := s.ServiceRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	slug, err := resolveSlug(in.Slug, in.Title, id, s.ServiceRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	applyServiceInput(svc, in, slug)
	if err := s.ServiceRepo.Update(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func applyServiceInput(svc *model.Service, in ServiceInput, slug string) {
	svc.Title = strings.TrimSpace(in.Title)
	svc.Slug = slug
	svc.Summary = in.Summary
	svc.Body = in.Body
	svc.Icon = in.Icon
	svc.PriceFrom = in.PriceFrom
	svc.SortOrder = in.SortOrder
	svc.Published = in.Published
}

func (s *ContentService) DeleteService(id uint) error {
	if _, err := s.ServiceRepo.FindByID(id); err != nil {
		return notFound(err)
	}
	return s.ServiceRepo.Delete(id)
}

// UploadMedia 上传封面等图片
func (s *ContentService) UploadMedia(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return s.StorageService.UploadImage(ctx, file, "media")
}
