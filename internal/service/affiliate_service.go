package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/logger"
	"dream_site_backend/pkg/monitoring"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var affiliateCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,49}$`)

// NormalizeAffiliateCode 推广码统一小写去空格，不合法时返回空串
func NormalizeAffiliateCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if !affiliateCodePattern.MatchString(code) {
		return ""
	}
	return code
}

type affiliateStore interface {
	Create(a *model.Affiliate) error
	FindByID(id uint) (*model.Affiliate, error)
	FindByCode(code string) (*model.Affiliate, error)
	List(page, limit int) ([]model.Affiliate, int64, error)
	Update(a *model.Affiliate) error
	Delete(id uint) error
}

type clickCounter interface {
	RecordClick(ctx context.Context, code string, at time.Time) error
	Clicks(ctx context.Context, code string, day time.Time) (int64, int64, error)
}

type affiliateSummaries interface {
	AffiliateSummary(code string) (repository.AffiliateSummary, error)
}

// AffiliateInput 后台创建/更新推广伙伴
type AffiliateInput struct {
	Code   string
	Name   string
	Email  string
	Active *bool
	Notes  string
}

type AffiliateService struct {
	Repo        affiliateStore
	Clicks      clickCounter
	Assessments affiliateSummaries
	now         func() time.Time
}

func NewAffiliateService(repo affiliateStore, clicks clickCounter, assessments affiliateSummaries) *AffiliateService {
	return &AffiliateService{
		Repo:        repo,
		Clicks:      clicks,
		Assessments: assessments,
		now:         time.Now,
	}
}

func (s *AffiliateService) Create(in AffiliateInput) (*model.Affiliate, error) {
	code := NormalizeAffiliateCode(in.Code)
	if code == "" {
		return nil, util.ErrInvalidAffiliate
	}

	if _, err := s.Repo.FindByCode(code); err == nil {
		return nil, util.ErrAffiliateCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &model.Affiliate{
		Code:   code,
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Active: true,
		Notes:  in.Notes,
	}
	if in.Active != nil {
		a.Active = *in.Active
	}

	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AffiliateService) Get(id uint) (*model.Affiliate, error) {
	a, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAffiliateNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AffiliateService) List(page, limit int) ([]model.Affiliate, int64, error) {
	return s.Repo.List(page, limit)
}

// Update 推广码已出现在外部链接中，不允许修改
func (s *AffiliateService) Update(id uint, in AffiliateInput) (*model.Affiliate, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		a.Name = strings.TrimSpace(in.Name)
	}
	if in.Email != "" {
		a.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	a.Notes = in.Notes

	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AffiliateService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

// TrackClick 记录推广链接点击，返回有效的推广码；未知或停用的推广码返回空串
func (s *AffiliateService) TrackClick(ctx context.Context, rawCode string) string {
	code := NormalizeAffiliateCode(rawCode)
	if code == "" {
		return ""
	}

	a, err := s.Repo.FindByCode(code)
	if err != nil || !a.Active {
		return ""
	}

	if err := s.Clicks.RecordClick(ctx, a.Code, s.now()); err != nil {
		logger.Log.Warn("Failed to record affiliate click", zap.String("code", a.Code), zap.Error(err))
	} else {
		monitoring.ReferralClicks.Inc()
	}
	return a.Code
}

// Stats 点击数来自 Redis，线索和完成数来自数据库
func (s *AffiliateService) Stats(ctx context.Context, id uint) (*model.AffiliateStats, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	total, today, err := s.Clicks.Clicks(ctx, a.Code, s.now())
	if err != nil {
		return nil, err
	}

	summary, err := s.Assessments.AffiliateSummary(a.Code)
	if err != nil {
		return nil, err
	}

	return &model.AffiliateStats{
		AffiliateID:  a.ID,
		Code:         a.Code,
		Clicks:       total,
		ClicksToday:  today,
		Leads:        summary.Leads,
		Completed:    summary.Completed,
		AverageScore: roundScore(summary.AverageScore),
	}, nil
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
