package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/logger"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriberStore interface {
	Create(s *model.NewsletterSubscriber) error
	FindByEmail(email string) (*model.NewsletterSubscriber, error)
	FindByToken(token string) (*model.NewsletterSubscriber, error)
	Update(s *model.NewsletterSubscriber) error
	List(status string, page, limit int) ([]model.NewsletterSubscriber, int64, error)
}

type welcomeMailer interface {
	Enabled() bool
	SendWelcome(ctx context.Context, sub *model.NewsletterSubscriber) error
}

type NewsletterService struct {
	Repo   subscriberStore
	Mailer welcomeMailer
	now    func() time.Time
}

func NewNewsletterService(repo subscriberStore, mailer welcomeMailer) *NewsletterService {
	return &NewsletterService{Repo: repo, Mailer: mailer, now: time.Now}
}

// Subscribe 幂等订阅：已订阅直接返回，已退订则重新激活。created 表示是否新建或重新激活
func (s *NewsletterService) Subscribe(ctx context.Context, email, name, source string) (*model.NewsletterSubscriber, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	sub, err := s.Repo.FindByEmail(email)
	switch {
	case err == nil:
		if sub.Status == model.SubscriberActive {
			return sub, false, nil
		}
		sub.Status = model.SubscriberActive
		sub.SubscribedAt = s.now()
		sub.UnsubscribedAt = nil
		if name != "" {
			sub.Name = strings.TrimSpace(name)
		}
		if err := s.Repo.Update(sub); err != nil {
			return nil, false, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = &model.NewsletterSubscriber{
			Email:        email,
			Name:         strings.TrimSpace(name),
			Status:       model.SubscriberActive,
			Token:        model.GenerateUUID(),
			Source:       source,
			SubscribedAt: s.now(),
		}
		if err := s.Repo.Create(sub); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, err
	}

	if s.Mailer != nil && s.Mailer.Enabled() {
		if err := s.Mailer.SendWelcome(ctx, sub); err != nil {
			logger.Log.Warn("Failed to send newsletter welcome", zap.String("email", sub.Email), zap.Error(err))
		}
	}
	return sub, true, nil
}

// Unsubscribe 按退订令牌退订，重复退订无副作用
func (s *NewsletterService) Unsubscribe(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return util.ErrSubscriberNotFound
	}

	sub, err := s.Repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSubscriberNotFound
		}
		return err
	}
	if sub.Status == model.SubscriberUnsubscribed {
		return nil
	}

	now := s.now()
	sub.Status = model.SubscriberUnsubscribed
	sub.UnsubscribedAt = &now
	return s.Repo.Update(sub)
}

func (s *NewsletterService) List(status string, page, limit int) ([]model.NewsletterSubscriber, int64, error) {
	return s.Repo.List(status, page, limit)
}
