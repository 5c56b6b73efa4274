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

type contactStore interface {
	Create(c *model.Contact) error
	FindByID(id uint) (*model.Contact, error)
	List(status string, page, limit int) ([]model.Contact, int64, error)
	UpdateStatus(id uint, status model.ContactStatus, handledAt *time.Time) error
	Delete(id uint) error
}

type contactNotifier interface {
	Enabled() bool
	NotifyContact(ctx context.Context, c *model.Contact) error
}

// ContactInput 联系表单
type ContactInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Message string
	Source  string
}

type ContactService struct {
	Repo     contactStore
	Notifier contactNotifier
}

func NewContactService(repo contactStore, notifier contactNotifier) *ContactService {
	return &ContactService{Repo: repo, Notifier: notifier}
}

// Submit 保存联系表单并通知负责人，通知失败不影响提交结果
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*model.Contact, error) {
	c := &model.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Company: strings.TrimSpace(in.Company),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
		Source:  in.Source,
		Status:  model.ContactNew,
	}
	if c.Source == "" {
		c.Source = "contact_form"
	}

	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}

	if s.Notifier != nil && s.Notifier.Enabled() {
		if err := s.Notifier.NotifyContact(ctx, c); err != nil {
			logger.Log.Warn("Failed to send contact notification", zap.Uint("contactId", c.ID), zap.Error(err))
		}
	}
	return c, nil
}

func (s *ContactService) List(status string, page, limit int) ([]model.Contact, int64, error) {
	return s.Repo.List(status, page, limit)
}

// SetStatus 标记为已处理或重新打开
func (s *ContactService) SetStatus(id uint, status model.ContactStatus) (*model.Contact, error) {
	c, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	var handledAt *time.Time
	if status == model.ContactHandled {
		now := time.Now()
		handledAt = &now
	}
	if err := s.Repo.UpdateStatus(id, status, handledAt); err != nil {
		return nil, err
	}

	c.Status = status
	c.HandledAt = handledAt
	return c, nil
}

func (s *ContactService) Delete(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	return s.Repo.Delete(id)
}
