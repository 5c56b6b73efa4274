package service

import (
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"math"
)

type DashboardService struct {
	AssessmentRepo *repository.AssessmentRepository
	ContactRepo    *repository.ContactRepository
	NewsletterRepo *repository.NewsletterRepository
	AffiliateRepo  *repository.AffiliateRepository
}

func NewDashboardService(
	assessmentRepo *repository.AssessmentRepository,
	contactRepo *repository.ContactRepository,
	newsletterRepo *repository.NewsletterRepository,
	affiliateRepo *repository.AffiliateRepository,
) *DashboardService {
	return &DashboardService{
		AssessmentRepo: assessmentRepo,
		ContactRepo:    contactRepo,
		NewsletterRepo: newsletterRepo,
		AffiliateRepo:  affiliateRepo,
	}
}

func (s *DashboardService) Stats() (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	var err error

	if stats.AssessmentsTotal, err = s.AssessmentRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.AssessmentsCompleted, err = s.AssessmentRepo.CountByStatus(model.AssessmentCompleted); err != nil {
		return nil, err
	}
	if stats.AssessmentsByTier, err = s.AssessmentRepo.CountByTier(); err != nil {
		return nil, err
	}

	avg, err := s.AssessmentRepo.AverageOverall()
	if err != nil {
		return nil, err
	}
	stats.AverageOverallScore = math.Round(avg*10) / 10

	if stats.ContactsNew, err = s.ContactRepo.CountByStatus(model.ContactNew); err != nil {
		return nil, err
	}
	if stats.SubscribersActive, err = s.NewsletterRepo.CountByStatus(model.SubscriberActive); err != nil {
		return nil, err
	}
	if stats.AffiliatesActive, err = s.AffiliateRepo.CountActive(); err != nil {
		return nil, err
	}

	return stats, nil
}
