package service

import (
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/logger"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type adminStore interface {
	FindByID(id uint) (*model.AdminUser, error)
	FindByEmail(email string) (*model.AdminUser, error)
	UpdateLastLogin(id uint, at time.Time) error
}

type AuthService struct {
	AdminRepo adminStore
	Cfg       *config.Config
}

func NewAuthService(adminRepo adminStore, cfg *config.Config) *AuthService {
	return &AuthService{
		AdminRepo: adminRepo,
		Cfg:       cfg,
	}
}

// Login 校验后台账号，成功返回 JWT
func (s *AuthService) Login(email, password string) (string, *model.AdminUser, error) {
	admin, err := s.AdminRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if admin.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(admin, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.AdminRepo.UpdateLastLogin(admin.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("adminId", admin.ID), zap.Error(err))
	}
	admin.LastLogin = &now

	return token, admin, nil
}

func (s *AuthService) Profile(id uint) (*model.AdminUser, error) {
	admin, err := s.AdminRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return admin, nil
}
