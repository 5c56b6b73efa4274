package database

import (
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/model"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")

	// release 模式下默认跳过迁移，除非显式指定 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		if err := SeedAdmin(db, &cfg.Admin); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate 同步所有表结构
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.AdminUser{},
		&model.DreamAssessment{},
		&model.Affiliate{},
		&model.Project{},
		&model.BlogPost{},
		&model.Service{},
		&model.Contact{},
		&model.NewsletterSubscriber{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

// SeedAdmin 若管理员表中不存在配置的邮箱，则创建初始管理员
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil
	}

	var existing model.AdminUser
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	admin := &model.AdminUser{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}
